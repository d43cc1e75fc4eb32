package models

import (
	"time"
)

// User is a registered campus member.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"` // Never leaves the server
	CreatedAt    time.Time `json:"createdAt"`
}

// Post is a single thread written by one user.
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"authorId"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Content   string    `gorm:"size:280;not null" json:"content"`
	Tag       *string   `gorm:"size:50;index" json:"tag,omitempty"` // NULL when untagged
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// Like records that a user endorsed a post. The composite primary key
// allows at most one row per (post, user) pair.
type Like struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"postId"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false;index" json:"userId"`
	Post      Post      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Like{}}
}
