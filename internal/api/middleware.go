package api

import (
	"net/http"
	"strings"

	"github.com/UkralStul/blog-service/internal/auth"
)

// authenticate пропускает запрос дальше только с действующим bearer-токеном.
// Нет учетных данных - 401; они есть, но не действующий bearer-токен - 403.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := credentials(r)
		if !ok {
			respondMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !strings.EqualFold(scheme, "Bearer") {
			respondMessage(w, http.StatusForbidden, "Forbidden")
			return
		}

		principal, err := s.tokens.Verify(token)
		if err != nil {
			respondMessage(w, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// credentials разбирает заголовок Authorization на схему и значение.
func credentials(r *http.Request) (scheme, token string, ok bool) {
	scheme, token, _ = strings.Cut(r.Header.Get("Authorization"), " ")
	token = strings.TrimSpace(token)
	return scheme, token, token != ""
}

// principal возвращает пользователя, положенного в контекст authenticate.
func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}
