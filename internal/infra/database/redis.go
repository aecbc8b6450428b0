package database

import (
	"github.com/redis/go-redis/v9"

	"github.com/totegamma/syscoin-offchain/internal/config"
)

// NewRedis returns a client for the configured redis, or nil when none is set.
func NewRedis(conf config.Server) *redis.Client {
	if conf.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
}
