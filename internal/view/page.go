package view

import (
	"embed"
	"html/template"

	"github.com/campusbuzz/campusbuzz/internal/feed"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data every HTML page receives.
type Page struct {
	Title        string
	Active       string
	UserName     string
	UserInitials string
	Cards        []Card
	Trending     []feed.TagCount
	SelectedTag  string
	Stats        *feed.AuthorStats
	KnownTags    []string
	MaxLength    int
}

// NewPage fills the fields shared by all pages.
func NewPage(title, active, userName string) *Page {
	return &Page{
		Title:        title,
		Active:       active,
		UserName:     userName,
		UserInitials: Initials(userName),
		KnownTags:    feed.KnownTags,
		MaxLength:    feed.MaxContentLength,
	}
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"tagEmoji": TagEmoji,
	}).ParseFS(templateFS, "templates/*.html")
}
