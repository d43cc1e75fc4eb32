package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/campusbuzz/campusbuzz/internal/feed"
	"github.com/campusbuzz/campusbuzz/internal/session"
	"github.com/campusbuzz/campusbuzz/internal/view"
)

// Options carries the settings SetupRoutes needs from the config.
type Options struct {
	CORSOrigin string
	Now        func() time.Time
}

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, db *gorm.DB, gate *session.Gate, opts Options) error {

	// --- Dependencies ---
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	env := &Env{
		Posts: feed.NewRepository(db),
		Likes: feed.NewLikeService(db),
		Now:   now,
	}

	tmpl, err := view.Templates()
	if err != nil {
		return err
	}
	router.SetHTMLTemplate(tmpl)

	// --- Middleware ---
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(SecurityHeadersMiddleware())

	corsOrigin := opts.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: corsOrigin != "*",
	}))

	router.GET("/healthz", env.Health)

	// --- Pages ---
	pages := router.Group("/", gate.RequirePage())
	{
		pages.GET("", env.Home)
		pages.GET("explore", env.Explore)
		pages.GET("profile", env.Profile)
	}

	// --- AJAX endpoints ---
	ajax := router.Group("/", gate.RequireAPI())
	{
		ajax.POST("post", env.CreatePost)
		ajax.POST("like", env.ToggleLike)
	}

	api := router.Group("/api", gate.RequireAPI())
	{
		api.GET("/feed", env.GetFeed)
		api.GET("/tags/trending", env.GetTrendingTags)
	}
	return nil
}
