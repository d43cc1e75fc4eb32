// Package session is the boundary to the login system. It turns a signed
// session token into the identity of the current user and keeps that identity
// on the request context. It never checks passwords.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

// CookieName is the cookie the login system sets.
const CookieName = "campusbuzz_session"

// ErrUnauthorized means the request carries no valid session.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the already-authenticated user behind a request.
type Identity struct {
	UserID   uint
	UserName string
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the gate.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Gate validates session tokens.
type Gate struct {
	secret   []byte
	loginURL string
	now      func() time.Time
}

func NewGate(secret, loginURL string) *Gate {
	return &Gate{secret: []byte(secret), loginURL: loginURL, now: time.Now}
}

// Issue signs a token for id that expires after ttl.
func (g *Gate) Issue(id Identity, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":   id.UserID,
		"user_name": id.UserName,
		"iat":       g.now().Unix(),
		"exp":       g.now().Add(ttl).Unix(),
	})
	return token.SignedString(g.secret)
}

// Parse validates a token and extracts the identity it carries.
func (g *Gate) Parse(raw string) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrUnauthorized
	}

	uid, ok := claims["user_id"].(float64)
	if !ok || uid < 1 {
		return Identity{}, ErrUnauthorized
	}
	name, _ := claims["user_name"].(string)
	if strings.TrimSpace(name) == "" {
		name = "User"
	}
	return Identity{UserID: uint(uid), UserName: name}, nil
}

// Authenticate reads the session from the cookie or a bearer header.
func (g *Gate) Authenticate(r *http.Request) (Identity, error) {
	raw := ""
	if c, err := r.Cookie(CookieName); err == nil {
		raw = c.Value
	}
	if raw == "" {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
	}
	if raw == "" {
		return Identity{}, ErrUnauthorized
	}
	return g.Parse(raw)
}

// RequirePage redirects anonymous visitors to the login page.
func (g *Gate) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.Request)
		if err != nil {
			c.Redirect(http.StatusFound, g.loginURL)
			c.Abort()
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// RequireAPI rejects anonymous AJAX calls with a JSON failure.
func (g *Gate) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := g.Authenticate(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
