// Package feed is the data layer behind the campus feed: posts, the
// aggregated feed read and the like toggle.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/campusbuzz/campusbuzz/internal/models"
)

const (
	MaxContentLength = 280
	MaxTagLength     = 50
)

// KnownTags is the composer's tag vocabulary. Any other short text is accepted too.
var KnownTags = []string{"Exam", "Fest", "Notice", "Study", "Project", "Sports", "Event"}

// PostView is a post decorated with its author and the viewer-specific aggregates.
type PostView struct {
	ID          uint      `json:"id"`
	AuthorID    uint      `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Content     string    `json:"content"`
	Tag         string    `json:"tag,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LikeCount   int64     `json:"like_count"`
	ViewerLiked bool      `json:"viewer_liked"`
}

// TagCount is one row of the trending tags list.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// AuthorStats are the counters shown on a profile.
type AuthorStats struct {
	PostCount     int64 `json:"post_count"`
	LikesReceived int64 `json:"likes_received"`
}

// Repository reads and writes posts.
type Repository struct {
	DB    *gorm.DB
	Clock func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db, Clock: time.Now}
}

// CreatePost stores a new post for authorID and returns it as the author would see it.
// The author is trusted to exist; the session already vouched for it.
func (r *Repository) CreatePost(ctx context.Context, authorID uint, content, tag string) (*PostView, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return nil, err
	}
	tagPtr, err := normalizeTag(tag)
	if err != nil {
		return nil, err
	}

	post := models.Post{
		AuthorID:  authorID,
		Content:   content,
		Tag:       tagPtr,
		CreatedAt: r.Clock().UTC(),
	}
	if err := r.DB.WithContext(ctx).Omit("Author").Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	var views []PostView
	if err := r.feedQuery(ctx, authorID).Where("posts.id = ?", post.ID).Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("load created post %d: %w", post.ID, err)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("load created post %d: %w", post.ID, ErrNotFound)
	}
	return &views[0], nil
}

// ListFeed returns every post, newest first, optionally restricted to one tag.
func (r *Repository) ListFeed(ctx context.Context, viewerID uint, tag string) ([]PostView, error) {
	q := r.feedQuery(ctx, viewerID)
	if tag = strings.TrimSpace(tag); tag != "" {
		q = q.Where("posts.tag = ?", tag)
	}
	return r.scanFeed(q)
}

// ListByAuthor returns the posts written by authorID, decorated for viewerID.
func (r *Repository) ListByAuthor(ctx context.Context, viewerID, authorID uint) ([]PostView, error) {
	return r.scanFeed(r.feedQuery(ctx, viewerID).Where("posts.author_id = ?", authorID))
}

// GetPost returns a single decorated post.
func (r *Repository) GetPost(ctx context.Context, viewerID, postID uint) (*PostView, error) {
	views, err := r.scanFeed(r.feedQuery(ctx, viewerID).Where("posts.id = ?", postID))
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}
	return &views[0], nil
}

// TrendingTags returns the tags with the most posts.
func (r *Repository) TrendingTags(ctx context.Context, limit int) ([]TagCount, error) {
	var tags []TagCount
	err := r.DB.WithContext(ctx).
		Model(&models.Post{}).
		Select("tag, COUNT(*) AS count").
		Where("tag IS NOT NULL AND tag <> ''").
		Group("tag").
		Order("count DESC, tag ASC").
		Limit(limit).
		Scan(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("trending tags: %w", err)
	}
	return tags, nil
}

// AuthorStats counts the posts written by authorID and the likes they received.
func (r *Repository) AuthorStats(ctx context.Context, authorID uint) (*AuthorStats, error) {
	var stats AuthorStats
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.Post{}).Where("author_id = ?", authorID).Count(&stats.PostCount).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	err := db.Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ?", authorID).
		Count(&stats.LikesReceived).Error
	if err != nil {
		return nil, fmt.Errorf("count likes received: %w", err)
	}
	return &stats, nil
}

// feedQuery selects posts joined with their author and the like aggregates
// for viewerID, in feed order.
func (r *Repository) feedQuery(ctx context.Context, viewerID uint) *gorm.DB {
	return r.DB.WithContext(ctx).
		Model(&models.Post{}).
		Select(`
			posts.id,
			posts.author_id,
			users.name AS author_name,
			posts.content,
			COALESCE(posts.tag, '') AS tag,
			posts.created_at,
			(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count,
			EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) AS viewer_liked
		`, viewerID).
		Joins("JOIN users ON users.id = posts.author_id").
		Order("posts.created_at DESC, posts.id DESC")
}

func (r *Repository) scanFeed(q *gorm.DB) ([]PostView, error) {
	views := []PostView{}
	if err := q.Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	return views, nil
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	switch n := utf8.RuneCountInString(content); {
	case n == 0:
		return "", &ValidationError{Field: "content", Message: "Content cannot be empty"}
	case n > MaxContentLength:
		return "", &ValidationError{Field: "content", Message: fmt.Sprintf("Content exceeds %d characters", MaxContentLength)}
	}
	return content, nil
}

func normalizeTag(tag string) (*string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(tag) > MaxTagLength {
		return nil, &ValidationError{Field: "tag", Message: fmt.Sprintf("Tag exceeds %d characters", MaxTagLength)}
	}
	return &tag, nil
}
