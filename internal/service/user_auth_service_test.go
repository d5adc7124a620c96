package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vesti-shop/internal/config"
	"github.com/vesti-shop/internal/constants"
	"github.com/vesti-shop/internal/models"
	"github.com/vesti-shop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:user_auth_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-key-not-for-production"
	cfg.UserJWT.ExpireHours = 1

	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserAuthTest(t)

	user, token, expiresAt, err := svc.Register("Alice@Example.com ", "password123", "Alice")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email should be normalized, got %q", user.Email)
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password must not be stored in plain text")
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("unexpected token %q expires %v", token, expiresAt)
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	loggedIn, token, _, err := svc.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Fatalf("unexpected login result: %+v", loggedIn)
	}
	if loggedIn.LastLoginAt == nil {
		t.Fatal("last login time should be recorded")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupUserAuthTest(t)

	if _, _, _, err := svc.Register("bob@example.com", "password123", "Bob"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// 大小写不同仍视为同一邮箱
	if _, _, _, err := svc.Register("BOB@example.com", "password456", "Bob2"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got %v", err)
	}
}

// raceUserRepository 模拟预检通过后另一请求先写入同邮箱的情况
type raceUserRepository struct {
	created bool
}

func (r *raceUserRepository) GetByID(id uint) (*models.User, error)       { return nil, nil }
func (r *raceUserRepository) GetByEmail(email string) (*models.User, error) { return nil, nil }
func (r *raceUserRepository) Create(user *models.User) error {
	r.created = true
	return gorm.ErrDuplicatedKey
}
func (r *raceUserRepository) UpdateLastLogin(id uint, at time.Time) error { return nil }

// 预检没查到、写入撞唯一索引时要归一为邮箱已存在，而不是裸的数据库错误
func TestRegisterConcurrentDuplicateMapsToEmailExists(t *testing.T) {
	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret-key-not-for-production"
	cfg.UserJWT.ExpireHours = 1
	repo := &raceUserRepository{}
	svc := NewUserAuthService(cfg, repo)

	_, _, _, err := svc.Register("carol@example.com", "password123", "Carol")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected email exists, got %v", err)
	}
	if !repo.created {
		t.Fatal("register should have reached the insert")
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	svc, _ := setupUserAuthTest(t)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"malformed email", "not-an-email", "password123"},
		{"short password", "carol@example.com", "short"},
	}
	for _, tc := range cases {
		if _, _, _, err := svc.Register(tc.email, tc.password, ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", tc.name, err)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupUserAuthTest(t)

	if _, _, _, err := svc.Register("dave@example.com", "password123", "Dave"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, _, err := svc.Login("dave@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected invalid credential, got %v", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("unknown email should report invalid credential, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := setupUserAuthTest(t)

	user, _, _, err := svc.Register("eve@example.com", "password123", "Eve")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := svc.Login("eve@example.com", "password123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected user disabled, got %v", err)
	}
}

func TestParseUserJWTRejectsTampered(t *testing.T) {
	svc, _ := setupUserAuthTest(t)

	_, token, _, err := svc.Register("frank@example.com", "password123", "Frank")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.ParseUserJWT(token + "x"); err == nil {
		t.Fatal("tampered token should fail to parse")
	}

	other := &config.Config{}
	other.UserJWT.SecretKey = "a-different-secret-key"
	otherSvc := NewUserAuthService(other, nil)
	if _, err := otherSvc.ParseUserJWT(token); err == nil {
		t.Fatal("token signed with another secret should be rejected")
	}
}

func TestGetProfile(t *testing.T) {
	svc, _ := setupUserAuthTest(t)

	user, _, _, err := svc.Register("grace@example.com", "password123", "Grace")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	got, err := svc.GetProfile(user.ID)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	if got.Email != "grace@example.com" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if _, err := svc.GetProfile(99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
