package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/syscoin-offchain/internal/domain"
)

// --- stubs ---

type stubEntry struct {
	value   []byte
	version uint64
}

// stubMemcache mimics memcached add/cas semantics in memory.
type stubMemcache struct {
	mu      sync.Mutex
	entries map[string]stubEntry
	seen    map[*memcache.Item]uint64
	next    uint64
}

func newStubMemcache() *stubMemcache {
	return &stubMemcache{entries: map[string]stubEntry{}, seen: map[*memcache.Item]uint64{}}
}

func (m *stubMemcache) Get(key string) (*memcache.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, memcache.ErrCacheMiss
	}
	item := &memcache.Item{Key: key, Value: append([]byte(nil), entry.value...)}
	m.seen[item] = entry.version
	return item, nil
}

func (m *stubMemcache) Add(item *memcache.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[item.Key]; ok {
		return memcache.ErrNotStored
	}
	m.put(item)
	return nil
}

func (m *stubMemcache) CompareAndSwap(item *memcache.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[item.Key]
	if !ok {
		return memcache.ErrNotStored
	}
	if version, seen := m.seen[item]; !seen || version != entry.version {
		return memcache.ErrCASConflict
	}
	m.put(item)
	return nil
}

func (m *stubMemcache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		return memcache.ErrCacheMiss
	}
	delete(m.entries, key)
	return nil
}

func (m *stubMemcache) put(item *memcache.Item) {
	m.next++
	m.entries[item.Key] = stubEntry{value: append([]byte(nil), item.Value...), version: m.next}
}

func (m *stubMemcache) cached(t *testing.T, alias string) domain.AliasData {
	t.Helper()
	item, err := m.Get(aliasDataCacheKey(alias))
	require.NoError(t, err)
	record, err := decodeCached(item.Value)
	require.NoError(t, err)
	return record
}

// hookedStore runs afterRead once, right after a name lookup hit the store.
type hookedStore struct {
	aliasDataStore
	afterRead func()
}

func (s *hookedStore) FindByName(ctx context.Context, name string) (domain.AliasData, error) {
	record, err := s.aliasDataStore.FindByName(ctx, name)
	if hook := s.afterRead; hook != nil {
		s.afterRead = nil
		hook()
	}
	return record, err
}

// --- tests ---

func TestCachedAliasDataReadFillDoesNotOverwriteWrite(t *testing.T) {
	ctx := context.Background()
	mc := newStubMemcache()
	inner := &hookedStore{aliasDataStore: NewAliasDataRepository(openTestDB(t))}
	repo := NewCachedAliasDataRepository(inner, mc, time.Minute)

	_, err := repo.Upsert(ctx, domain.AliasData{AliasName: "myalias", Payload: json.RawMessage(`{"v":1}`)})
	require.NoError(t, err)
	require.NoError(t, mc.Delete(aliasDataCacheKey("myalias")))

	// the read loads v1 from the store, then a write of v2 lands before the
	// read fills the cache
	inner.afterRead = func() {
		_, err := repo.Upsert(ctx, domain.AliasData{AliasName: "myalias", Payload: json.RawMessage(`{"v":2}`)})
		require.NoError(t, err)
	}
	stale, err := repo.FindByName(ctx, "myalias")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(stale.Payload))

	assert.Equal(t, `{"v":2}`, string(mc.cached(t, "myalias").Payload))

	fresh, err := repo.FindByName(ctx, "myalias")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(fresh.Payload))

	byID, err := repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, fresh.Payload, byID.Payload)
}

func TestCachedAliasDataUpsertRefreshesEntry(t *testing.T) {
	ctx := context.Background()
	mc := newStubMemcache()
	repo := NewCachedAliasDataRepository(NewAliasDataRepository(openTestDB(t)), mc, time.Minute)

	_, err := repo.Upsert(ctx, domain.AliasData{AliasName: "myalias", Payload: json.RawMessage(`{"v":1}`)})
	require.NoError(t, err)
	_, err = repo.FindByName(ctx, "myalias")
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, domain.AliasData{AliasName: "myalias", Payload: json.RawMessage(`{"v":2}`)})
	require.NoError(t, err)

	got, err := repo.FindByName(ctx, "myalias")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got.Payload))
}

func TestCachedAliasDataKeepsNewerEntry(t *testing.T) {
	mc := newStubMemcache()
	repo := NewCachedAliasDataRepository(nil, mc, time.Minute)

	now := time.Now().UTC()
	newer := domain.AliasData{ID: "id", AliasName: "myalias", Kind: domain.KindAliasData, Payload: json.RawMessage(`{"v":2}`), UpdatedAt: now}
	older := newer
	older.Payload = json.RawMessage(`{"v":1}`)
	older.UpdatedAt = now.Add(-time.Second)

	require.NoError(t, repo.storeFresh(newer))
	require.NoError(t, repo.storeFresh(older))
	assert.Equal(t, `{"v":2}`, string(mc.cached(t, "myalias").Payload))

	newest := newer
	newest.Payload = json.RawMessage(`{"v":3}`)
	newest.UpdatedAt = now.Add(time.Second)
	require.NoError(t, repo.storeFresh(newest))
	assert.Equal(t, `{"v":3}`, string(mc.cached(t, "myalias").Payload))
}

func TestCachedAliasDataPayloadVerbatim(t *testing.T) {
	ctx := context.Background()
	mc := newStubMemcache()
	repo := NewCachedAliasDataRepository(NewAliasDataRepository(openTestDB(t)), mc, time.Minute)

	payload := `{ "amount": 12345678901234567891, "price": 0.1000000000000000055511151231257827 }`
	_, err := repo.Upsert(ctx, domain.AliasData{AliasName: "myalias", Payload: json.RawMessage(payload)})
	require.NoError(t, err)

	got, err := repo.FindByName(ctx, "myalias")
	require.NoError(t, err)
	assert.Equal(t, payload, string(got.Payload))
}
