package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UkralStul/blog-service/internal/storage"
	"github.com/UkralStul/blog-service/internal/storage/inmemory"
)

func TestFillWithMockData_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()

	require.NoError(t, fillWithMockData(ctx, store, zap.NewNop()))
	require.NoError(t, fillWithMockData(ctx, store, zap.NewNop()))

	posts, err := store.GetPosts(ctx, storage.PaginationArgs{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestMigrate_RejectsInMemory(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate", "--storage", "in-memory"})
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "nothing to migrate")
}

func TestMigrate_SQLite(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"migrate", "--storage", "sqlite", "--dsn", t.TempDir() + "/blog.sqlite"})
	assert.NoError(t, cmd.ExecuteContext(context.Background()))
}
