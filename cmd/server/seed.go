package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/UkralStul/blog-service/internal/auth"
	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
)

// fillWithMockData заполняет пустое хранилище демонстрационными данными.
// Если пользователь demo уже существует, ничего не делает.
func fillWithMockData(ctx context.Context, s storage.Storage, logger *zap.Logger) error {
	if _, err := s.GetUserByUsername(ctx, "demo"); err == nil {
		logger.Info("demo data already present, skipping seed")
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("fillWithMockData: check demo user: %w", err)
	}

	hash, err := auth.HashPassword("demo-password")
	if err != nil {
		return fmt.Errorf("fillWithMockData: hash password: %w", err)
	}

	// 1. Автор постов
	demo, err := s.CreateUser(ctx, &domain.User{Username: "demo", Email: "demo@example.com", PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create demo user: %w", err)
	}
	// 2. Читатель, который оставит комментарии
	reader, err := s.CreateUser(ctx, &domain.User{Username: "reader", Email: "reader@example.com", PasswordHash: hash})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create reader: %w", err)
	}

	// 3. Посты
	welcome, err := s.CreatePost(ctx, &domain.Post{
		Title:   "Welcome to the blog",
		Content: "<p>This is the first post. Sign up and leave a comment!</p>",
		UserID:  demo.ID,
	})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create post: %w", err)
	}
	second, err := s.CreatePost(ctx, &domain.Post{
		Title:   "Writing in HTML",
		Content: "<p>Post content is stored as rich text.</p>",
		UserID:  demo.ID,
	})
	if err != nil {
		return fmt.Errorf("fillWithMockData: failed to create second post: %w", err)
	}

	// 4. Комментарии к первому посту
	for _, c := range []*domain.Comment{
		{PostID: welcome.ID, UserID: reader.ID, Content: "Great start!"},
		{PostID: welcome.ID, UserID: demo.ID, Content: "Thanks for reading."},
	} {
		if _, err := s.CreateComment(ctx, c); err != nil {
			return fmt.Errorf("fillWithMockData: failed to create comment: %w", err)
		}
	}

	logger.Info("mock data filled successfully",
		zap.Int64("welcome_post_id", welcome.ID),
		zap.Int64("second_post_id", second.ID),
	)
	return nil
}
