package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/campusbuzz/internal/feed"
	"github.com/campusbuzz/campusbuzz/internal/log"
	"github.com/campusbuzz/campusbuzz/internal/session"
	"github.com/campusbuzz/campusbuzz/internal/view"
)

// --- Configuration Constants ---
const (
	homeTrendingLimit    = 5
	exploreTrendingLimit = 10
	maxTrendingLimit     = 50
)

// --- Structs for request binding ---
type CreatePostInput struct {
	Content string `form:"content" json:"content"`
	Tag     string `form:"tag" json:"tag"`
}
type ToggleLikeInput struct {
	PostID json.Number `form:"post_id" json:"post_id"`
}

// --- Response bodies ---
type CreatePostResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Post    *feed.PostView `json:"post,omitempty"`
}
type ToggleLikeResponse struct {
	Success   bool   `json:"success"`
	Action    string `json:"action"`
	LikeCount int64  `json:"like_count"`
}

// --- Handlers ---
type Env struct {
	Posts *feed.Repository
	Likes *feed.LikeService
	Now   func() time.Time
}

func (e *Env) Home(c *gin.Context) {
	id := identity(c)
	ctx := c.Request.Context()

	posts, err := e.Posts.ListFeed(ctx, id.UserID, "")
	if err != nil {
		e.renderError(c, "Error fetching feed", err)
		return
	}
	trending, err := e.Posts.TrendingTags(ctx, homeTrendingLimit)
	if err != nil {
		e.renderError(c, "Error fetching trending tags", err)
		return
	}

	page := view.NewPage("Home", "home", id.UserName)
	page.Cards = view.Cards(posts, e.Now())
	page.Trending = trending
	c.HTML(http.StatusOK, "home.html", page)
}

func (e *Env) Explore(c *gin.Context) {
	id := identity(c)
	ctx := c.Request.Context()
	tag := strings.TrimSpace(c.Query("tag"))

	posts, err := e.Posts.ListFeed(ctx, id.UserID, tag)
	if err != nil {
		e.renderError(c, "Error fetching feed", err)
		return
	}
	trending, err := e.Posts.TrendingTags(ctx, exploreTrendingLimit)
	if err != nil {
		e.renderError(c, "Error fetching trending tags", err)
		return
	}

	page := view.NewPage("Explore", "explore", id.UserName)
	page.Cards = view.Cards(posts, e.Now())
	page.Trending = trending
	page.SelectedTag = tag
	c.HTML(http.StatusOK, "explore.html", page)
}

func (e *Env) Profile(c *gin.Context) {
	id := identity(c)
	ctx := c.Request.Context()

	posts, err := e.Posts.ListByAuthor(ctx, id.UserID, id.UserID)
	if err != nil {
		e.renderError(c, "Error fetching posts", err)
		return
	}
	stats, err := e.Posts.AuthorStats(ctx, id.UserID)
	if err != nil {
		e.renderError(c, "Error fetching profile", err)
		return
	}

	page := view.NewPage("Profile", "profile", id.UserName)
	page.Cards = view.Cards(posts, e.Now())
	page.Stats = stats
	c.HTML(http.StatusOK, "profile.html", page)
}

func (e *Env) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid input"})
		return
	}

	id := identity(c)
	post, err := e.Posts.CreatePost(c.Request.Context(), id.UserID, input.Content, input.Tag)
	if err != nil {
		var ve *feed.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, CreatePostResponse{Message: ve.Message})
			return
		}
		log.Error.Printf("[%s] Error creating post: %v", requestID(c), err)
		c.JSON(http.StatusInternalServerError, CreatePostResponse{Message: "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, CreatePostResponse{
		Success: true,
		Message: "Post created successfully",
		Post:    post,
	})
}

func (e *Env) ToggleLike(c *gin.Context) {
	var input ToggleLikeInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid post ID"})
		return
	}
	postID, err := strconv.ParseUint(strings.TrimSpace(input.PostID.String()), 10, 32)
	if err != nil || postID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid post ID"})
		return
	}

	id := identity(c)
	res, err := e.Likes.ToggleLike(c.Request.Context(), id.UserID, uint(postID))
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Post not found"})
		case feed.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid post ID"})
		default:
			log.Error.Printf("[%s] Error toggling like: %v", requestID(c), err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process like"})
		}
		return
	}

	c.JSON(http.StatusOK, ToggleLikeResponse{
		Success:   true,
		Action:    res.Action(),
		LikeCount: res.LikeCount,
	})
}

func (e *Env) GetFeed(c *gin.Context) {
	id := identity(c)
	posts, err := e.Posts.ListFeed(c.Request.Context(), id.UserID, c.Query("tag"))
	if err != nil {
		log.Error.Printf("[%s] Error fetching feed: %v", requestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch feed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": posts})
}

func (e *Env) GetTrendingTags(c *gin.Context) {
	limit := exploreTrendingLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxTrendingLimit {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid limit"})
			return
		}
		limit = n
	}

	tags, err := e.Posts.TrendingTags(c.Request.Context(), limit)
	if err != nil {
		log.Error.Printf("[%s] Error fetching trending tags: %v", requestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tags"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tags": tags})
}

func (e *Env) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (e *Env) renderError(c *gin.Context, msg string, err error) {
	log.Error.Printf("[%s] %s: %v", requestID(c), msg, err)
	c.String(http.StatusInternalServerError, msg)
}

// identity is set by the session gate on every route that reaches a handler.
func identity(c *gin.Context) session.Identity {
	id, _ := session.FromContext(c.Request.Context())
	return id
}
