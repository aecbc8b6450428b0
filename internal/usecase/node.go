package usecase

import (
	"context"
	"fmt"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

type NodeUsecase struct {
	client NodeClient
}

func NewNodeUsecase(client NodeClient) *NodeUsecase {
	return &NodeUsecase{client: client}
}

func (uc *NodeUsecase) GetInfo(ctx context.Context) (map[string]any, error) {
	ctx, span := tracer.Start(ctx, "Node.Usecase.GetInfo")
	defer span.End()

	info, err := uc.client.GetInfo(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return info, nil
}
