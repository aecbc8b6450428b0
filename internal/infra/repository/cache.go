package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

type aliasDataStore interface {
	FindByID(ctx context.Context, id string) (domain.AliasData, error)
	FindByName(ctx context.Context, name string) (domain.AliasData, error)
	Upsert(ctx context.Context, record domain.AliasData) (domain.AliasData, error)
}

// memcacheClient is the subset of *memcache.Client the cache relies on.
type memcacheClient interface {
	Get(key string) (*memcache.Item, error)
	Add(item *memcache.Item) error
	CompareAndSwap(item *memcache.Item) error
	Delete(key string) error
}

const casAttempts = 3

// CachedAliasDataRepository keeps name lookups in memcached. Read misses only
// fill an empty slot (Add); writes store the fresh record with a
// compare-and-swap that never replaces a newer entry. Cache failures fall
// back to the store.
type CachedAliasDataRepository struct {
	inner aliasDataStore
	mc    memcacheClient
	ttl   int32
}

func NewCachedAliasDataRepository(inner aliasDataStore, mc memcacheClient, ttl time.Duration) *CachedAliasDataRepository {
	return &CachedAliasDataRepository{
		inner: inner,
		mc:    mc,
		ttl:   int32(ttl / time.Second),
	}
}

// cachedAliasData keeps the payload as a string so cached documents come back
// byte for byte.
type cachedAliasData struct {
	ID        string    `json:"id"`
	AliasName string    `json:"aliasName"`
	Kind      string    `json:"kind"`
	Payload   string    `json:"payload"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func encodeCached(record domain.AliasData) ([]byte, error) {
	return json.Marshal(cachedAliasData{
		ID:        record.ID,
		AliasName: record.AliasName,
		Kind:      record.Kind,
		Payload:   string(record.Payload),
		UpdatedAt: record.UpdatedAt,
	})
}

func decodeCached(value []byte) (domain.AliasData, error) {
	var cached cachedAliasData
	err := json.Unmarshal(value, &cached)
	if err != nil {
		return domain.AliasData{}, err
	}
	return domain.AliasData{
		ID:        cached.ID,
		AliasName: cached.AliasName,
		Kind:      cached.Kind,
		Payload:   json.RawMessage(cached.Payload),
		UpdatedAt: cached.UpdatedAt,
	}, nil
}

func (r *CachedAliasDataRepository) FindByID(ctx context.Context, id string) (domain.AliasData, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedAliasDataRepository) FindByName(ctx context.Context, name string) (domain.AliasData, error) {
	key := aliasDataCacheKey(name)

	item, err := r.mc.Get(key)
	if err == nil {
		record, err := decodeCached(item.Value)
		if err == nil {
			return record, nil
		}
	} else if !errors.Is(err, memcache.ErrCacheMiss) {
		r.warn(ctx, "memcached get failed", err, name)
	}

	record, err := r.inner.FindByName(ctx, name)
	if err != nil {
		return domain.AliasData{}, err
	}

	value, err := encodeCached(record)
	if err == nil {
		// a concurrent write may have cached a newer record meanwhile
		err = r.mc.Add(&memcache.Item{Key: key, Value: value, Expiration: r.ttl})
	}
	if err != nil && !errors.Is(err, memcache.ErrNotStored) {
		r.warn(ctx, "memcached add failed", err, name)
	}

	return record, nil
}

func (r *CachedAliasDataRepository) Upsert(ctx context.Context, record domain.AliasData) (domain.AliasData, error) {
	stored, err := r.inner.Upsert(ctx, record)
	if err != nil {
		return domain.AliasData{}, err
	}

	err = r.storeFresh(stored)
	if err != nil {
		r.warn(ctx, "memcached update failed", err, stored.AliasName)
		err = r.mc.Delete(aliasDataCacheKey(stored.AliasName))
		if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
			r.warn(ctx, "memcached delete failed", err, stored.AliasName)
		}
	}

	return stored, nil
}

// storeFresh caches record unless the cache already holds a newer version.
func (r *CachedAliasDataRepository) storeFresh(record domain.AliasData) error {
	key := aliasDataCacheKey(record.AliasName)
	value, err := encodeCached(record)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		item, err := r.mc.Get(key)
		if errors.Is(err, memcache.ErrCacheMiss) {
			err = r.mc.Add(&memcache.Item{Key: key, Value: value, Expiration: r.ttl})
			if errors.Is(err, memcache.ErrNotStored) {
				continue
			}
			return err
		}
		if err != nil {
			return err
		}

		cached, err := decodeCached(item.Value)
		if err == nil && cached.UpdatedAt.After(record.UpdatedAt) {
			return nil
		}

		item.Value = value
		item.Expiration = r.ttl
		err = r.mc.CompareAndSwap(item)
		if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) {
			continue
		}
		return err
	}
	return errors.New("cache entry kept changing")
}

func (r *CachedAliasDataRepository) warn(ctx context.Context, msg string, err error, alias string) {
	slog.WarnContext(
		ctx, msg,
		slog.String("error", err.Error()),
		slog.String("alias", alias),
		slog.String("module", "repository"),
	)
}

// memcached keys are limited to 250 printable bytes; alias names are not.
func aliasDataCacheKey(name string) string {
	return "aliasdata:" + strconv.FormatUint(xxh3.HashString(name), 16)
}
