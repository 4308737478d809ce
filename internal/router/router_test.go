package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/auth"
	"reviewhub/internal/config"
	"reviewhub/internal/db"
	"reviewhub/internal/handler"
	"reviewhub/internal/mail"
	"reviewhub/internal/middleware"
	"reviewhub/internal/model"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
)

type outbox struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (o *outbox) Send(_ context.Context, msg mail.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.sent)
	_, rest, ok := strings.Cut(o.sent[len(o.sent)-1].Body, "Your confirmation code: ")
	require.True(t, ok)
	code, _, _ := strings.Cut(rest, "\n")
	return code
}

type testServer struct {
	e      *echo.Echo
	users  repository.UserRepository
	titles repository.TitleRepository
	jwt    *auth.JWTService
	outbox *outbox
}

func newTestServer(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	gormDB, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	if cfg == nil {
		cfg = &config.Config{AuthRateLimit: 1000, AuthRateBurst: 1000}
	}
	log, _ := test.NewNullLogger()
	box := &outbox{}

	userRepo := repository.NewUserRepository(gormDB)
	categoryRepo := repository.NewCategoryRepository(gormDB)
	genreRepo := repository.NewGenreRepository(gormDB)
	titleRepo := repository.NewTitleRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	jwtService := auth.NewJWTService("router-test-secret", time.Hour)
	codes := auth.NewConfirmationCodes("router-test-secret", time.Hour)
	userService := service.NewUserService(userRepo, nil, time.Minute)

	e := echo.New()
	Register(e, cfg, log, middleware.NewMetrics(prometheus.NewRegistry()), jwtService, userService, Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, codes, jwtService, box, log)),
		User:     handler.NewUserHandler(userService),
		Category: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo)),
		Genre:    handler.NewGenreHandler(service.NewGenreService(genreRepo)),
		Title:    handler.NewTitleHandler(service.NewTitleService(titleRepo, categoryRepo, genreRepo)),
		Review:   handler.NewReviewHandler(service.NewReviewService(titleRepo, reviewRepo)),
		Comment:  handler.NewCommentHandler(service.NewCommentService(reviewRepo, commentRepo)),
	})

	return &testServer{e: e, users: userRepo, titles: titleRepo, jwt: jwtService, outbox: box}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signup runs the full signup and token exchange and returns the token.
func (s *testServer) signup(t *testing.T, username string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": username + "@example.com", "username": username,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username": username, "confirmation_code": s.outbox.lastCode(t),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp handler.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	u := &model.User{Username: "root", Email: "root@example.com", Role: model.RoleAdmin}
	require.NoError(t, s.users.Create(context.Background(), u))
	token, err := s.jwt.GenerateAccessToken(u.ID, u.Username)
	require.NoError(t, err)
	return token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestReviewFlow(t *testing.T) {
	s := newTestServer(t, nil)
	root := s.admin(t)
	alice := s.signup(t, "alice")
	bob := s.signup(t, "bob")

	rec := s.do(t, http.MethodPost, "/api/v1/categories", root, map[string]string{"name": "Movie", "slug": "movie"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/v1/genres/", root, map[string]string{"name": "Drama", "slug": "drama"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/titles", alice, map[string]interface{}{"name": "Solaris", "year": 1972})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/titles", root, map[string]interface{}{
		"name": "Solaris", "year": 1972, "category": "movie", "genre": []string{"drama"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	title := decode[service.TitleView](t, rec)
	assert.Nil(t, title.Rating)
	require.NotNil(t, title.Category)
	assert.Equal(t, "movie", title.Category.Slug)

	reviews := fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID)

	rec = s.do(t, http.MethodPost, reviews, "", map[string]interface{}{"text": "great", "score": 8})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, reviews, alice, map[string]interface{}{"text": "great", "score": 8})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[handler.ReviewResponse](t, rec)
	assert.Equal(t, "alice", review.Author)
	assert.Equal(t, title.ID, review.Title)

	rec = s.do(t, http.MethodPost, reviews, alice, map[string]interface{}{"text": "again", "score": 2})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, reviews, bob, map[string]interface{}{"text": "meh", "score": 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPatch, fmt.Sprintf("%s/%d", reviews, review.ID), bob, map[string]interface{}{"score": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, reviews, bob, map[string]interface{}{"text": "superb", "score": 10})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/titles/%d", title.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	title = decode[service.TitleView](t, rec)
	require.NotNil(t, title.Rating)
	assert.InDelta(t, 9.0, *title.Rating, 0.001)

	comments := fmt.Sprintf("%s/%d/comments", reviews, review.ID)
	rec = s.do(t, http.MethodPost, comments, bob, map[string]string{"text": "agreed"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, comments+"/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[handler.ListResponse[handler.CommentResponse]](t, rec)
	assert.EqualValues(t, 1, list.Count)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "bob", list.Results[0].Author)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", reviews, review.ID), alice, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, comments, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsersMe_RoleIsImmutable(t *testing.T) {
	s := newTestServer(t, nil)
	root := s.admin(t)
	bob := s.signup(t, "bob")

	rec := s.do(t, http.MethodPatch, "/api/v1/users/me", bob, map[string]string{"role": "admin", "bio": "hi"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[handler.UserResponse](t, rec)
	assert.Equal(t, model.RoleUser, me.Role)
	assert.Equal(t, "hi", me.Bio)

	rec = s.do(t, http.MethodGet, "/api/v1/users", bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPatch, "/api/v1/users/bob", root, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.RoleAdmin, decode[handler.UserResponse](t, rec).Role)

	// bob's next request sees the new role
	rec = s.do(t, http.MethodGet, "/api/v1/users", bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupValidation(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name      string
		body      map[string]string
		wantField string
	}{
		{name: "missing email", body: map[string]string{"username": "carol"}, wantField: "email"},
		{name: "bad email", body: map[string]string{"email": "nope", "username": "carol"}, wantField: "email"},
		{name: "reserved username", body: map[string]string{"email": "me@example.com", "username": "me"}, wantField: "username"},
		{name: "illegal characters", body: map[string]string{"email": "c@example.com", "username": "ca rol!"}, wantField: "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			var body struct {
				Code   string              `json:"code"`
				Fields map[string][]string `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "INVALID_INPUT", body.Code)
			assert.Contains(t, body.Fields, tt.wantField)
		})
	}
}

func TestToken_WrongCode(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"email": "dan@example.com", "username": "dan"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{"username": "dan", "confirmation_code": "wrong"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{"username": "nobody", "confirmation_code": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, &config.Config{AuthRateLimit: 0.001, AuthRateBurst: 1})
	body := map[string]string{"email": "eve@example.com", "username": "eve"}

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/auth/signup", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/api/v1/auth/signup", "", body).Code)
}

func TestOperationalRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reviewhub_http_requests_total")
}

func TestValidator_FieldNamesFollowJSON(t *testing.T) {
	v := NewValidator()
	err := v.Validate(&handler.SignupRequest{Email: "x", Username: strings.Repeat("a", 151)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "ensure this field has no more than 150 characters")

	assert.NoError(t, v.Validate(&handler.SignupRequest{Email: "a@b.co", Username: "abc"}))
}
