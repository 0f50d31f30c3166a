package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/UkralStul/blog-service/internal/auth"
	"github.com/UkralStul/blog-service/internal/domain"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type registerResponse struct {
	UserID    int64     `json:"userID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Username) != req.Username || strings.TrimSpace(req.Email) != req.Email {
		s.respondError(w, r, domain.Invalid("username and email must not have surrounding spaces"))
		return
	}
	// bcrypt учитывает только первые 72 байта
	if len(req.Password) > 72 {
		s.respondError(w, r, domain.Invalid("password must be at most 72 bytes"))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.storage.CreateUser(r.Context(), &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, registerResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// login отвечает одинаково для неизвестного имени и неверного пароля.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.storage.GetUserByUsername(r.Context(), req.Username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		auth.BurnPasswordCheck(req.Password)
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		s.respondError(w, r, err)
		return
	}

	if !auth.VerifyPassword(req.Password, user.PasswordHash) {
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.storage.GetUserByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profileResponse{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
	})
}
