package database

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/totegamma/syscoin-offchain/internal/config"
)

// NewMemcached returns a client for the configured memcached, or nil when none is set.
func NewMemcached(conf config.Server) *memcache.Client {
	if conf.MemcachedAddr == "" {
		return nil
	}
	mc := memcache.New(conf.MemcachedAddr)
	mc.Timeout = 200 * time.Millisecond
	return mc
}
