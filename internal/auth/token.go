package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL - время жизни токена.
const DefaultTokenTTL = time.Hour

// ErrInvalidToken возвращается для любого непрошедшего проверку токена:
// просроченного, с неверной подписью или испорченного.
var ErrInvalidToken = errors.New("invalid token")

// Principal - аутентифицированный пользователь запроса.
type Principal struct {
	ID       int64
	Username string
}

// Claims - полезная нагрузка токена.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens выпускает и проверяет подписанные HS256 токены.
// Ротации ключа и отзыва нет: токен действует до истечения срока.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// TokenOption настраивает Tokens.
type TokenOption func(*Tokens)

// WithTTL задает время жизни токенов.
func WithTTL(ttl time.Duration) TokenOption {
	return func(t *Tokens) { t.ttl = ttl }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) TokenOption {
	return func(t *Tokens) { t.now = now }
}

// NewTokens создает Tokens с ключом подписи.
func NewTokens(signingKey string, opts ...TokenOption) *Tokens {
	t := &Tokens{
		key: []byte(signingKey),
		ttl: DefaultTokenTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue выпускает токен для пользователя.
func (t *Tokens) Issue(id int64, username string) (string, error) {
	issuedAt := t.now()
	claims := Claims{
		UserID:   id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify проверяет подпись и срок действия токена.
func (t *Tokens) Verify(token string) (Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (interface{}, error) { return t.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Principal{}, ErrInvalidToken
	}
	return Principal{ID: claims.UserID, Username: claims.Username}, nil
}

type contextKey string

const principalKey = contextKey("principal")

// WithPrincipal кладет пользователя в контекст запроса.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom извлекает пользователя из контекста.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
