package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

// AliasDataChannel carries a message for every accepted alias data write.
const AliasDataChannel = "offchain.aliasdata"

type AliasDataEvent struct {
	Alias    string `json:"alias"`
	RecordID string `json:"recordId"`
	URL      string `json:"url"`
}

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) PublishAliasData(ctx context.Context, record domain.AliasData, url string) error {

	jsonstr, err := json.Marshal(AliasDataEvent{
		Alias:    record.AliasName,
		RecordID: record.ID,
		URL:      url,
	})
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, AliasDataChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}
