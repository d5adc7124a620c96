package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vesti-shop/internal/config"
	"github.com/vesti-shop/internal/constants"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/repository"
	"github.com/vesti-shop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestResolveAllowedOrigin(t *testing.T) {
	cases := []struct {
		name             string
		origin           string
		allowed          []string
		allowCredentials bool
		want             string
	}{
		{"wildcard", "https://a.example.com", []string{"*"}, false, "*"},
		{"wildcard with credentials echoes origin", "https://a.example.com", []string{"*"}, true, "https://a.example.com"},
		{"exact match", "https://shop.example.com", []string{"https://shop.example.com"}, false, "https://shop.example.com"},
		{"case insensitive match", "https://Shop.Example.com", []string{"https://shop.example.com"}, false, "https://Shop.Example.com"},
		{"no match", "https://evil.example.com", []string{"https://shop.example.com"}, false, ""},
		{"empty origin without wildcard", "", []string{"https://shop.example.com"}, false, ""},
		{"empty allowed list", "https://a.example.com", nil, false, ""},
	}
	for _, tc := range cases {
		if got := resolveAllowedOrigin(tc.origin, tc.allowed, tc.allowCredentials); got != tc.want {
			t.Fatalf("%s: want %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://shop.example.com"}}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("allow origin want matched origin got %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, getRequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("response should carry a generated request id")
	}
	if w.Body.String() != w.Header().Get("X-Request-ID") {
		t.Fatal("context request id should match response header")
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "given-id")
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "given-id" {
		t.Fatalf("provided request id should be echoed, got %q", w.Header().Get("X-Request-ID"))
	}
}

type authMiddlewareFixture struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	user     *models.User
	token    string
}

func setupAuthMiddlewareTest(t *testing.T) authMiddlewareFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_mw_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "middleware-test-secret"
	cfg.UserJWT.ExpireHours = 1

	userRepo := repository.NewUserRepository(db)
	authSvc := service.NewUserAuthService(cfg, userRepo)

	user := &models.User{
		Email:        "mw@example.com",
		PasswordHash: "x",
		Status:       constants.UserStatusActive,
	}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := authSvc.GenerateUserJWT(user)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	return authMiddlewareFixture{db: db, userRepo: userRepo, user: user, token: token}
}

func authTestRouter(secret string, userRepo repository.UserRepository) *gin.Engine {
	r := gin.New()
	r.GET("/me", UserJWTAuthMiddleware(secret, userRepo), func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return r
}

func bodyStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var body struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v (%s)", err, w.Body.String())
	}
	return body.StatusCode
}

func TestUserJWTAuthMiddlewareValidToken(t *testing.T) {
	fixture := setupAuthMiddlewareTest(t)
	r := authTestRouter("middleware-test-secret", fixture.userRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+fixture.token)
	r.ServeHTTP(w, req)

	var body struct {
		UserID uint `json:"user_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.UserID != fixture.user.ID {
		t.Fatalf("user_id want %d got %d", fixture.user.ID, body.UserID)
	}
}

func TestUserJWTAuthMiddlewareRejects(t *testing.T) {
	fixture := setupAuthMiddlewareTest(t)
	token := fixture.token

	cases := []struct {
		name   string
		secret string
		header string
	}{
		{"missing secret", "", "Bearer " + token},
		{"missing header", "middleware-test-secret", ""},
		{"malformed header", "middleware-test-secret", "Token " + token},
		{"wrong secret", "another-secret", "Bearer " + token},
		{"garbage token", "middleware-test-secret", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		r := authTestRouter(tc.secret, fixture.userRepo)
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		if got := bodyStatusCode(t, w); got != 401 {
			t.Fatalf("%s: status_code want 401 got %d", tc.name, got)
		}
	}
}

func TestUserJWTAuthMiddlewareDisabledUser(t *testing.T) {
	fixture := setupAuthMiddlewareTest(t)
	if err := fixture.db.Model(&models.User{}).Where("id = ?", fixture.user.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	r := authTestRouter("middleware-test-secret", fixture.userRepo)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+fixture.token)
	r.ServeHTTP(w, req)
	if got := bodyStatusCode(t, w); got != 401 {
		t.Fatalf("disabled user should be rejected, status_code got %d", got)
	}
}

func TestIsActiveUserStatus(t *testing.T) {
	if !isActiveUserStatus("active") || !isActiveUserStatus(" Active ") {
		t.Fatal("active status variants should pass")
	}
	if isActiveUserStatus("disabled") || isActiveUserStatus("") {
		t.Fatal("non-active status must not pass")
	}
}
