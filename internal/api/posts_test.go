package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts_EndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.register("alice", "secret1")
	token := env.login("alice", "secret1")

	rec := env.do(http.MethodPost, "/api/posts", map[string]string{"title": "Hi", "content": "body"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]any
	decode(t, rec, &created)
	postID, ok := created["postID"].(float64)
	require.True(t, ok, "postID must be numeric")
	assert.Equal(t, "Hi", created["title"])
	assert.NotEmpty(t, created["createdAt"])
	assert.NotEmpty(t, created["updatedAt"])

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", int64(postID)), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var post struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
		UserID  int64  `json:"userId"`
		User    struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decode(t, rec, &post)
	assert.Equal(t, int64(postID), post.ID)
	assert.Equal(t, "Hi", post.Title)
	assert.Equal(t, "body", post.Content)
	assert.Equal(t, "alice", post.User.Username)
}

func TestCreatePost_Invalid(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")

	tests := []struct {
		name string
		body any
	}{
		{name: "malformed json", body: `{"title"`},
		{name: "missing title", body: map[string]string{"content": "body"}},
		{name: "missing content", body: map[string]string{"title": "Hi"}},
		{name: "blank title", body: map[string]string{"title": "   ", "content": "body"}},
		{name: "title too long", body: map[string]string{"title": strings.Repeat("a", 256), "content": "body"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/posts", tt.body, token)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
}

func TestGetPost_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/posts/99999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", message(t, rec))
}

func TestUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")
	postID := env.createPost(token, "Hi", "body")
	path := fmt.Sprintf("/api/posts/%d", postID)

	rec := env.do(http.MethodPut, path, map[string]string{"title": "Hello", "content": "new body", "featuredImage": "cover.png"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]any
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp["updatedAt"])

	rec = env.do(http.MethodGet, path, nil, "")
	var post map[string]any
	decode(t, rec, &post)
	assert.Equal(t, "Hello", post["title"])
	assert.Equal(t, "new body", post["content"])
	assert.Equal(t, "cover.png", post["featuredImage"])

	rec = env.do(http.MethodPut, path, map[string]string{"title": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeletePost_OwnershipFolding(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signup("alice")
	_, bob := env.signup("bob")
	postID := env.createPost(alice, "Hi", "body")
	path := fmt.Sprintf("/api/posts/%d", postID)

	rec := env.do(http.MethodPut, path, map[string]string{"title": "pwned", "content": "pwned"}, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", message(t, rec))

	rec = env.do(http.MethodDelete, path, nil, bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Ответ для чужого поста совпадает с ответом для несуществующего
	missing := env.do(http.MethodDelete, "/api/posts/99999", nil, bob)
	assert.Equal(t, rec.Body.String(), missing.Body.String())

	rec = env.do(http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var post map[string]any
	decode(t, rec, &post)
	assert.Equal(t, "Hi", post["title"])
	assert.Equal(t, "body", post["content"])
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup("alice")
	postID := env.createPost(token, "Hi", "body")
	path := fmt.Sprintf("/api/posts/%d", postID)

	rec := env.do(http.MethodDelete, "/api/posts/99999", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Несуществующий ID ничего не удалил
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, path, nil, "").Code)

	rec = env.do(http.MethodDelete, path, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post successfully deleted", message(t, rec))

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path+"/comments", nil, "").Code)
}

func TestListPosts(t *testing.T) {
	env := newTestEnv(t)
	_, alice := env.signup("alice")
	_, bob := env.signup("bob")
	env.createPost(alice, "first", "body")
	env.createPost(bob, "second", "body")
	env.createPost(alice, "third", "body")

	rec := env.do(http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []struct {
		Title string `json:"title"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	decode(t, rec, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Title)
	assert.Equal(t, "alice", posts[0].User.Username)
	assert.Equal(t, "bob", posts[1].User.Username)

	rec = env.do(http.MethodGet, "/api/posts?limit=1&offset=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].Title)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/posts?limit=0", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/posts?offset=-1", nil, "").Code)
}

func TestListPosts_Empty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
