// Package view turns feed rows into the cards the HTML pages render.
package view

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/campusbuzz/campusbuzz/internal/feed"
)

// Card is the presentation model of one post.
type Card struct {
	ID         uint
	AuthorName string
	Initials   string
	Age        string
	Content    string
	Tag        string
	TagEmoji   string
	LikeCount  int64
	Liked      bool
}

var tagEmoji = map[string]string{
	"Exam":    "📝",
	"Fest":    "🎉",
	"Notice":  "📢",
	"Study":   "📚",
	"Project": "💼",
	"Sports":  "⚽",
	"Event":   "🎪",
}

const defaultTagEmoji = "🔖"

// Cards maps feed rows to cards, computing ages against now.
func Cards(posts []feed.PostView, now time.Time) []Card {
	cards := make([]Card, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, NewCard(p, now))
	}
	return cards
}

func NewCard(p feed.PostView, now time.Time) Card {
	c := Card{
		ID:         p.ID,
		AuthorName: p.AuthorName,
		Initials:   Initials(p.AuthorName),
		Age:        RelativeAge(p.CreatedAt, now),
		Content:    p.Content,
		Tag:        p.Tag,
		LikeCount:  p.LikeCount,
		Liked:      p.ViewerLiked,
	}
	if p.Tag != "" {
		c.TagEmoji = TagEmoji(p.Tag)
	}
	return c
}

// TagEmoji returns the badge emoji for a tag.
func TagEmoji(tag string) string {
	if e, ok := tagEmoji[tag]; ok {
		return e
	}
	return defaultTagEmoji
}

// Initials returns the avatar letters for a display name: the first letter of
// each of the first two words, or the first two letters of a single word.
func Initials(name string) string {
	words := strings.Fields(name)
	var out []rune
	switch {
	case len(words) >= 2:
		out = []rune{firstRune(words[0]), firstRune(words[1])}
	case len(words) == 1:
		out = []rune(words[0])
		if len(out) > 2 {
			out = out[:2]
		}
	}
	if len(out) == 0 {
		return "??"
	}
	for i, r := range out {
		out[i] = unicode.ToUpper(r)
	}
	return string(out)
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// RelativeAge labels how long ago t was, using only the largest calendar unit
// that is at least one: "3y", "2mo", "5d", "4h", "12m", or "now".
func RelativeAge(t, now time.Time) string {
	t = t.In(now.Location())
	if !t.Before(now) {
		return "now"
	}

	months := (now.Year()-t.Year())*12 + int(now.Month()-t.Month())
	if t.AddDate(0, months, 0).After(now) {
		months--
	}
	if years := months / 12; years > 0 {
		return fmt.Sprintf("%dy", years)
	}
	if months > 0 {
		return fmt.Sprintf("%dmo", months)
	}

	d := now.Sub(t)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return "now"
}
