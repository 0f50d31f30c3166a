package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
)

// Поддерживаемые драйверы.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// sqlitePragmas включают WAL, ожидание блокировки и проверку внешних ключей для каждого соединения.
var sqlitePragmas = []struct{ key, value string }{
	{"_journal_mode", "WAL"},
	{"_busy_timeout", "5000"},
	{"_foreign_keys", "1"},
}

// Options - параметры подключения к реляционному хранилищу.
type Options struct {
	Driver string
	DSN    string
	Logger *zap.Logger
}

// Store реализует интерфейс Storage поверх gorm (SQLite или PostgreSQL).
type Store struct {
	db *gorm.DB
}

var _ storage.Storage = (*Store)(nil)

// New открывает соединение с базой. Схема создается отдельно через Migrate.
func New(opts Options) (*Store, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		// SQLite допускает одного писателя; одно соединение к тому же сохраняет базу :memory: между запросами
		sqlDB.SetMaxOpenConns(1)
	}

	return &Store{db: db}, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, errors.New("database dsn is empty")
	}
	switch driver {
	case DriverSQLite:
		return sqlite.Open(withSQLitePragmas(dsn)), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// withSQLitePragmas дописывает в DSN недостающие параметры, не трогая заданные явно.
func withSQLitePragmas(dsn string) string {
	for _, p := range sqlitePragmas {
		if strings.Contains(dsn, p.key+"=") {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + p.key + "=" + p.value
	}
	return dsn
}

// Migrate создает таблицы users, posts и comments, если их еще нет.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&domain.User{}, &domain.Post{}, &domain.Comment{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	// GORM заполнит ID и CreatedAt после создания
	return user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound(domain.EntityUser, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, domain.Invalid("post owner %d does not exist", post.UserID)
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound(domain.EntityPost, id)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (s *Store) GetPosts(ctx context.Context, args storage.PaginationArgs) ([]*domain.Post, error) {
	posts := make([]*domain.Post, 0, args.Limit)
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(args.Limit).
		Offset(args.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	var updated domain.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Владелец проверяется в том же UPDATE: для чужого поста затронуто ноль строк
		res := tx.Model(&domain.Post{}).
			Where("id = ? AND user_id = ?", post.ID, post.UserID).
			Updates(map[string]any{
				"title":          post.Title,
				"content":        post.Content,
				"featured_image": post.FeaturedImage,
				"updated_at":     time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.NotFound(domain.EntityPost, post.ID)
		}
		return tx.First(&updated, "id = ?", post.ID).Error
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &updated, nil
}

func (s *Store) DeletePost(ctx context.Context, id, userID int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Post{})
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(domain.EntityPost, id)
	}
	return nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	// Проверяем существование поста и создаем комментарий в одной транзакции
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.Select("id").First(&post, "id = ?", comment.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFound(domain.EntityPost, comment.PostID)
			}
			return err
		}

		if err := tx.Create(comment).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return domain.Invalid("comment author %d does not exist", comment.UserID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID int64) ([]*domain.CommentView, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if count == 0 {
		return nil, domain.NotFound(domain.EntityPost, postID)
	}

	views := make([]*domain.CommentView, 0)
	err := s.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.content, comments.created_at, COALESCE(users.username, '') AS username").
		Joins("LEFT JOIN users ON users.id = comments.user_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return views, nil
}

// === Dataloader Method ===

func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	var users []*domain.User
	// Загружаем всех авторов одним запросом
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	result := make(map[int64]*domain.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
