package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/UkralStul/blog-service/internal/dataloader"
	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
)

const (
	defaultPostsLimit = 10
	maxPostsLimit     = 100
)

// postRequest - тело создания и обновления поста.
type postRequest struct {
	Title         string  `json:"title" validate:"required,max=255"`
	Content       string  `json:"content" validate:"required"`
	FeaturedImage *string `json:"featuredImage" validate:"omitempty,max=1024"`
}

type createPostResponse struct {
	PostID    int64     `json:"postID"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type authorResponse struct {
	Username       string  `json:"username,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type postResponse struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	FeaturedImage *string        `json:"featuredImage"`
	UserID        int64          `json:"userId"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	User          authorResponse `json:"user"`
}

func newPostResponse(p *domain.Post, author *domain.User) postResponse {
	resp := postResponse{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		FeaturedImage: p.FeaturedImage,
		UserID:        p.UserID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if author != nil {
		resp.User = authorResponse{Username: author.Username, ProfilePicture: author.ProfilePicture}
	}
	return resp
}

func (s *Server) decodePost(w http.ResponseWriter, r *http.Request) (*postRequest, error) {
	var req postRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.Invalid("title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.Invalid("content is required")
	}
	return &req, nil
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodePost(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	post, err := s.storage.CreatePost(r.Context(), &domain.Post{
		Title:         req.Title,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		UserID:        principal(r).ID,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, createPostResponse{
		PostID:    post.ID,
		Title:     post.Title,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	})
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	post, err := s.storage.GetPostByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	author, err := s.storage.GetUserByID(r.Context(), post.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newPostResponse(post, author))
}

// listPosts отдает ленту постов. Авторы подгружаются одним батчем через dataloader.
func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	args, err := paginationArgs(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	posts, err := s.storage.GetPosts(r.Context(), args)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	loaders := dataloader.For(r.Context())
	thunks := make([]func() (*domain.User, error), len(posts))
	for i, p := range posts {
		thunks[i] = loaders.User(r.Context(), p.UserID)
	}

	resp := make([]postResponse, 0, len(posts))
	for i, p := range posts {
		author, err := thunks[i]()
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.respondError(w, r, err)
			return
		}
		resp = append(resp, newPostResponse(p, author))
	}

	respondJSON(w, http.StatusOK, resp)
}

func paginationArgs(r *http.Request) (storage.PaginationArgs, error) {
	args := storage.PaginationArgs{Limit: defaultPostsLimit}
	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPostsLimit {
			return args, domain.Invalid("limit must be between 1 and %d", maxPostsLimit)
		}
		args.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return args, domain.Invalid("offset must be a non-negative integer")
		}
		args.Offset = offset
	}
	return args, nil
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	req, err := s.decodePost(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	post, err := s.storage.UpdatePost(r.Context(), &domain.Post{
		ID:            id,
		UserID:        principal(r).ID,
		Title:         req.Title,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]time.Time{"updatedAt": post.UpdatedAt})
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.storage.DeletePost(r.Context(), id, principal(r).ID); err != nil {
		s.respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "Post successfully deleted")
}
