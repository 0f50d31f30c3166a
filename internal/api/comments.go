package api

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/UkralStul/blog-service/internal/domain"
)

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

type commentResponse struct {
	CommentID int64     `json:"commentID"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Username  string    `json:"username,omitempty"`
}

// createComment добавляет комментарий. Пост должен существовать, иначе 404.
func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req commentRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.respondError(w, r, domain.Invalid("content cannot be empty"))
		return
	}
	if utf8.RuneCountInString(req.Content) > domain.MaxCommentLength {
		s.respondError(w, r, domain.Invalid("content must be at most %d characters", domain.MaxCommentLength))
		return
	}

	comment, err := s.storage.CreateComment(r.Context(), &domain.Comment{
		PostID:  postID,
		UserID:  principal(r).ID,
		Content: req.Content,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, commentResponse{
		CommentID: comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	})
}

// listComments возвращает комментарии поста по времени создания.
// Нет поста - 404, сбой хранилища - 500, нет комментариев - пустой список.
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views, err := s.storage.GetCommentsByPostID(r.Context(), postID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := make([]commentResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, commentResponse{
			CommentID: v.ID,
			Content:   v.Content,
			CreatedAt: v.CreatedAt,
			Username:  v.Username,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}
