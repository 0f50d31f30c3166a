package dataloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
	"github.com/UkralStul/blog-service/internal/storage/inmemory"
)

// countingStore считает обращения к батч-методу
type countingStore struct {
	storage.Storage
	calls atomic.Int32
}

func (s *countingStore) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	s.calls.Add(1)
	return s.Storage.GetUsersByIDs(ctx, ids)
}

func TestLoaders_BatchesUserLookups(t *testing.T) {
	ctx := context.Background()
	mem := inmemory.New()
	alice, err := mem.CreateUser(ctx, &domain.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	bob, err := mem.CreateUser(ctx, &domain.User{Username: "bob", Email: "b@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	store := &countingStore{Storage: mem}
	loaders := NewLoaders(store)

	thunks := []func() (*domain.User, error){
		loaders.User(ctx, alice.ID),
		loaders.User(ctx, bob.ID),
		loaders.User(ctx, alice.ID),
	}

	names := make([]string, 0, len(thunks))
	for _, thunk := range thunks {
		u, err := thunk()
		require.NoError(t, err)
		names = append(names, u.Username)
	}

	assert.Equal(t, []string{"alice", "bob", "alice"}, names)
	assert.Equal(t, int32(1), store.calls.Load())
}

func TestLoaders_MissingUser(t *testing.T) {
	loaders := NewLoaders(inmemory.New())

	_, err := loaders.User(context.Background(), 404)()
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMiddleware_InjectsLoaders(t *testing.T) {
	var got *Loaders
	handler := Middleware(inmemory.New())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = For(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotNil(t, got)
}
