package sessions

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealplanner/extractor/keyword"
	"mealplanner/planner"
	"mealplanner/recipes"
)

func finishedState(t *testing.T) *planner.State {
	t.Helper()
	wf, err := planner.New(recipes.Default(), keyword.New())
	require.NoError(t, err)
	st, err := wf.Run(context.Background(), "3 vegetarian dinners under $30")
	require.NoError(t, err)
	require.Equal(t, planner.StageDone, st.Stage)
	return st
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	st := finishedState(t)
	require.NoError(t, store.Save(ctx, st))

	got, err := store.Load(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	st.NeedsCostCalculation = false
	st.Conversation = st.Conversation[:1]
	require.NoError(t, store.Save(ctx, st), "saving again replaces the snapshot")
	got, err = store.Load(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Error(t, store.Save(ctx, &planner.State{}))
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	st := finishedState(t)
	require.NoError(t, store.Save(ctx, st))
	require.NoError(t, store.Close())

	store, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.Load(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

type fakeRedis struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Close() error { return nil }

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	store := &RedisStore{client: client, ttl: time.Hour}

	st := finishedState(t)
	require.NoError(t, store.Save(ctx, st))
	assert.Equal(t, time.Hour, client.ttls[keyPrefix+st.SessionID])

	got, err := store.Load(ctx, st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	client.err = errors.New("connection refused")
	assert.Error(t, store.Save(ctx, st))
	_, err = store.Load(ctx, st.SessionID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)
}
