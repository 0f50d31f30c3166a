package storage

import (
	"context"

	"github.com/UkralStul/blog-service/internal/domain"
)

// PaginationArgs - аргументы для постраничной выборки постов.
type PaginationArgs struct {
	Limit  int
	Offset int
}

// Storage определяет контракт для хранилищ.
// Реализация передается обработчикам явно, глобального соединения нет.
type Storage interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	GetPostByID(ctx context.Context, id int64) (*domain.Post, error)
	GetPosts(ctx context.Context, args PaginationArgs) ([]*domain.Post, error)
	// UpdatePost и DeletePost фильтруют по ID поста и ID владельца одновременно:
	// чужой пост неотличим от несуществующего.
	UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	DeletePost(ctx context.Context, id, userID int64) error

	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID int64) ([]*domain.CommentView, error)

	// Метод для Dataloader'а
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error)

	Ping(ctx context.Context) error
	Close() error
}

