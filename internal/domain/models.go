package domain

import "time"

// User представляет зарегистрированного пользователя блога.
type User struct {
	ID             int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"column:password;type:varchar(255);not null"`
	ProfilePicture *string   `json:"profilePicture" gorm:"type:varchar(1024)"`
	CreatedAt      time.Time `json:"createdAt" gorm:"not null"`
}

// Post представляет пост в блоге.
type Post struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"type:varchar(255);not null"`
	Content       string    `json:"content" gorm:"type:text;not null"`
	FeaturedImage *string   `json:"featuredImage" gorm:"type:varchar(1024)"`
	UserID        int64     `json:"userId" gorm:"not null;index"`
	CreatedAt     time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"not null"`
	User          *User     `json:"-" gorm:"constraint:OnDelete:RESTRICT"` // gorm only
}

// Comment представляет комментарий к посту.
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID    int64     `json:"postId" gorm:"not null;index"`
	UserID    int64     `json:"userId" gorm:"not null;index"`
	Content   string    `json:"content" gorm:"type:varchar(2000);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`  // gorm only
	User      *User     `json:"-" gorm:"constraint:OnDelete:RESTRICT"` // gorm only
}

// CommentView - комментарий вместе с именем автора, как его отдает список комментариев.
type CommentView struct {
	ID        int64
	Content   string
	CreatedAt time.Time
	Username  string
}

// MaxCommentLength - ограничение длины комментария в символах, совпадает с varchar у Comment.Content.
const MaxCommentLength = 2000
