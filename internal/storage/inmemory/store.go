package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/UkralStul/blog-service/internal/domain"
	"github.com/UkralStul/blog-service/internal/storage"
)

// Store реализует интерфейс Storage в памяти.
// Наружу отдаются только копии записей, чтобы вызывающий код не мог изменить хранилище в обход методов.
type Store struct {
	mu             sync.RWMutex
	nextID         int64
	users          map[int64]*domain.User
	usersByName    map[string]int64
	usersByEmail   map[string]int64
	posts          map[int64]*domain.Post
	comments       map[int64]*domain.Comment
	commentsByPost map[int64][]int64 // map[postID][]commentID
	now            func() time.Time
}

var _ storage.Storage = (*Store)(nil)

// New создает новый экземпляр in-memory хранилища.
func New() *Store {
	return &Store{
		users:          make(map[int64]*domain.User),
		usersByName:    make(map[string]int64),
		usersByEmail:   make(map[string]int64),
		posts:          make(map[int64]*domain.Post),
		comments:       make(map[int64]*domain.Comment),
		commentsByPost: make(map[int64][]int64),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// === User Methods ===

func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usersByName[user.Username]; ok {
		return nil, domain.ErrConflict
	}
	if _, ok := s.usersByEmail[user.Email]; ok {
		return nil, domain.ErrConflict
	}

	u := *user
	u.ID = s.id()
	u.CreatedAt = s.now()
	s.users[u.ID] = &u
	s.usersByName[u.Username] = u.ID
	s.usersByEmail[u.Email] = u.ID

	out := u
	return &out, nil
}

func (s *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityUser, id)
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *s.users[id]
	return &out, nil
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.UserID]; !ok {
		return nil, domain.Invalid("post owner %d does not exist", post.UserID)
	}

	p := *post
	p.ID = s.id()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	p.User = nil
	s.posts[p.ID] = &p

	out := p
	return &out, nil
}

func (s *Store) GetPostByID(ctx context.Context, id int64) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityPost, id)
	}
	out := *p
	return &out, nil
}

func (s *Store) GetPosts(ctx context.Context, args storage.PaginationArgs) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allPosts := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		cp := *p
		allPosts = append(allPosts, &cp)
	}

	// Новые посты первыми, при равном времени - больший ID первым
	sort.Slice(allPosts, func(i, j int) bool {
		if allPosts[i].CreatedAt.Equal(allPosts[j].CreatedAt) {
			return allPosts[i].ID > allPosts[j].ID
		}
		return allPosts[i].CreatedAt.After(allPosts[j].CreatedAt)
	})

	start := args.Offset
	if start >= len(allPosts) {
		return []*domain.Post{}, nil
	}
	end := start + args.Limit
	if end > len(allPosts) {
		end = len(allPosts)
	}
	return allPosts[start:end], nil
}

func (s *Store) UpdatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[post.ID]
	if !ok || p.UserID != post.UserID {
		return nil, domain.NotFound(domain.EntityPost, post.ID)
	}
	p.Title = post.Title
	p.Content = post.Content
	p.FeaturedImage = post.FeaturedImage
	p.UpdatedAt = s.now()

	out := *p
	return &out, nil
}

func (s *Store) DeletePost(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok || p.UserID != userID {
		return domain.NotFound(domain.EntityPost, id)
	}
	delete(s.posts, id)

	// Каскадное удаление комментариев, как ON DELETE CASCADE в SQL-хранилище
	for _, cID := range s.commentsByPost[id] {
		delete(s.comments, cID)
	}
	delete(s.commentsByPost, id)
	return nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostID]; !ok {
		return nil, domain.NotFound(domain.EntityPost, comment.PostID)
	}
	if _, ok := s.users[comment.UserID]; !ok {
		return nil, domain.Invalid("comment author %d does not exist", comment.UserID)
	}

	c := *comment
	c.ID = s.id()
	c.CreatedAt = s.now()
	c.Post, c.User = nil, nil
	s.comments[c.ID] = &c
	s.commentsByPost[c.PostID] = append(s.commentsByPost[c.PostID], c.ID)

	out := c
	return &out, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID int64) ([]*domain.CommentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, domain.NotFound(domain.EntityPost, postID)
	}

	ids := s.commentsByPost[postID]
	views := make([]*domain.CommentView, 0, len(ids))
	for _, id := range ids {
		c, ok := s.comments[id]
		if !ok {
			continue
		}
		v := &domain.CommentView{ID: c.ID, Content: c.Content, CreatedAt: c.CreatedAt}
		if u, ok := s.users[c.UserID]; ok {
			v.Username = u.Username
		}
		views = append(views, v)
	}

	sort.SliceStable(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID < views[j].ID
		}
		return views[i].CreatedAt.Before(views[j].CreatedAt)
	})
	return views, nil
}

// === Dataloader Methods ===

func (s *Store) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(map[int64]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			results[id] = &cp
		}
	}
	return results, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }
