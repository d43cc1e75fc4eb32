package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/campusbuzz/campusbuzz/internal/db"
	"github.com/campusbuzz/campusbuzz/internal/models"
	"github.com/campusbuzz/campusbuzz/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	gate   *session.Gate
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn, err := db.Open("sqlite://:memory:", db.Options{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	gate := session.NewGate("test-secret", "/login")
	router := gin.New()
	require.NoError(t, SetupRoutes(router, conn, gate, Options{}))
	return &testServer{router: router, db: conn, gate: gate}
}

func (s *testServer) user(t *testing.T, name string) (models.User, string) {
	t.Helper()
	u := models.User{Name: name, Email: strings.ToLower(name) + "@campus.edu", PasswordHash: "x"}
	require.NoError(t, s.db.Create(&u).Error)
	token, err := s.gate.Issue(session.Identity{UserID: u.ID, UserName: u.Name}, time.Hour)
	require.NoError(t, err)
	return u, token
}

func (s *testServer) postForm(t *testing.T, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreatePostAndToggleLike(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.user(t, "Alice")
	_, bobToken := s.user(t, "Bob")

	w := s.postForm(t, "/post", aliceToken, url.Values{"content": {"Midterm schedule posted"}, "tag": {"Exam"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	post := body["post"].(map[string]interface{})
	assert.Equal(t, "Midterm schedule posted", post["content"])
	assert.Equal(t, "Alice", post["author_name"])
	assert.Equal(t, "Exam", post["tag"])
	postID := int(post["id"].(float64))

	w = s.postForm(t, "/like", bobToken, url.Values{"post_id": {strconv.Itoa(postID)}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"action":"liked","like_count":1}`, w.Body.String())

	w = s.postForm(t, "/like", bobToken, url.Values{"post_id": {strconv.Itoa(postID)}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"action":"unliked","like_count":0}`, w.Body.String())
}

func TestToggleLikeJSONBody(t *testing.T) {
	s := newTestServer(t)
	alice, token := s.user(t, "Alice")
	post := models.Post{AuthorID: alice.ID, Content: "hi", CreatedAt: time.Now()}
	require.NoError(t, s.db.Omit("Author").Create(&post).Error)

	req := httptest.NewRequest(http.MethodPost, "/like", strings.NewReader(`{"post_id": `+strconv.Itoa(int(post.ID))+`}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"action":"liked","like_count":1}`, w.Body.String())
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Alice")

	w := s.postForm(t, "/post", token, url.Values{"content": {"   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Content cannot be empty"}`, w.Body.String())

	w = s.postForm(t, "/post", token, url.Values{"content": {strings.Repeat("a", 281)}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Content exceeds 280 characters"}`, w.Body.String())

	var n int64
	require.NoError(t, s.db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestToggleLikeFailures(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Alice")

	w := s.postForm(t, "/like", token, url.Values{"post_id": {"999999"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Post not found"}`, w.Body.String())

	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		w = s.postForm(t, "/like", token, url.Values{"post_id": {bad}})
		assert.Equal(t, http.StatusBadRequest, w.Code, "post_id %q", bad)
		assert.Equal(t, false, decode(t, w)["success"])
	}

	w = s.postForm(t, "/like", "", url.Values{"post_id": {"1"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, w.Body.String())
}

func TestFeedAPI(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Alice")

	for _, in := range []url.Values{
		{"content": {"first"}, "tag": {"Study"}},
		{"content": {"second"}, "tag": {"Fest"}},
		{"content": {"third"}, "tag": {"Study"}},
	} {
		require.Equal(t, http.StatusOK, s.postForm(t, "/post", token, in).Code)
	}

	w := s.get(t, "/api/feed", token)
	require.Equal(t, http.StatusOK, w.Code)
	posts := decode(t, w)["posts"].([]interface{})
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].(map[string]interface{})["content"])

	w = s.get(t, "/api/feed?tag=Study", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["posts"].([]interface{}), 2)

	w = s.get(t, "/api/tags/trending?limit=1", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"tags":[{"tag":"Study","count":2}]}`, w.Body.String())

	w = s.get(t, "/api/tags/trending?limit=0", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPages(t *testing.T) {
	s := newTestServer(t)
	_, token := s.user(t, "Alice Moore")
	require.Equal(t, http.StatusOK, s.postForm(t, "/post", token, url.Values{"content": {"<b>bold</b>"}, "tag": {"Notice"}}).Code)

	for _, path := range []string{"/", "/explore", "/explore?tag=Notice", "/profile"} {
		w := s.get(t, path, token)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "AM", path)
		assert.Contains(t, w.Body.String(), "&lt;b&gt;bold&lt;/b&gt;", path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}

	w := s.get(t, "/", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.get(t, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
