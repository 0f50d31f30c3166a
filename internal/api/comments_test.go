package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
	"github.com/UkralStul/blog-service/internal/storage/inmemory"
)

func TestComments_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signup("alice")
	_, bob := env.signup("bob")
	postID := env.createPost(alice, "Hi", "body")
	path := fmt.Sprintf("/api/posts/%d/comments", postID)

	rec := env.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = env.do(http.MethodPost, path, map[string]string{"content": "Nice post"}, bob)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decode(t, rec, &created)
	assert.NotZero(t, created["commentID"])
	assert.Equal(t, "Nice post", created["content"])
	assert.NotEmpty(t, created["createdAt"])

	rec = env.do(http.MethodPost, path, map[string]string{"content": "Thanks!"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []struct {
		CommentID int64  `json:"commentID"`
		Content   string `json:"content"`
		CreatedAt string `json:"createdAt"`
		Username  string `json:"username"`
	}
	decode(t, rec, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "Nice post", comments[0].Content)
	assert.Equal(t, "bob", comments[0].Username)
	assert.Equal(t, "Thanks!", comments[1].Content)
	assert.Equal(t, "alice", comments[1].Username)
	assert.Less(t, comments[0].CommentID, comments[1].CommentID)
}

func TestCreateComment_Invalid(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")
	postID := env.createPost(token, "Hi", "body")
	path := fmt.Sprintf("/api/posts/%d/comments", postID)

	for name, body := range map[string]any{
		"missing content": map[string]string{},
		"blank content":   map[string]string{"content": "   "},
		"too long":        map[string]string{"content": strings.Repeat("a", domain.MaxCommentLength+1)},
		"malformed json":  `{"content":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := env.do(http.MethodPost, path, body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateComment_StoresContentAsSent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")
	postID := env.createPost(token, "Hi", "body")
	path := fmt.Sprintf("/api/posts/%d/comments", postID)

	rec := env.do(http.MethodPost, path, map[string]string{"content": "  padded\n"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created map[string]any
	decode(t, rec, &created)
	assert.Equal(t, "  padded\n", created["content"])

	longest := strings.Repeat("ё", domain.MaxCommentLength)
	rec = env.do(http.MethodPost, path, map[string]string{"content": longest}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []struct {
		Content string `json:"content"`
	}
	decode(t, rec, &comments)
	require.Len(t, comments, 2)
	assert.Equal(t, "  padded\n", comments[0].Content)
	assert.Equal(t, longest, comments[1].Content)
}

func TestCreateComment_PostMustExist(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")

	rec := env.do(http.MethodPost, "/api/posts/99999/comments", map[string]string{"content": "orphan"}, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", message(t, rec))
}

func TestCreateComment_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")
	postID := env.createPost(token, "Hi", "body")

	rec := env.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID), map[string]string{"content": "anon"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListComments_PostNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/posts/99999/comments", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// brokenStore имитирует сбой хранилища при чтении комментариев
type brokenStore struct {
	storage.Storage
}

func (brokenStore) GetCommentsByPostID(context.Context, int64) ([]*domain.CommentView, error) {
	return nil, errors.New("disk I/O error: database is locked")
}

func TestListComments_StoreFailureIsInternalError(t *testing.T) {
	env := newTestEnvWithStore(t, brokenStore{Storage: inmemory.New()})

	rec := env.do(http.MethodGet, "/api/posts/1/comments", nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", message(t, rec))
	assert.NotContains(t, rec.Body.String(), "disk")
}
