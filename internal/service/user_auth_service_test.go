package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopnext/internal/config"
	"github.com/shopnext/internal/constants"
	"github.com/shopnext/internal/models"
	"github.com/shopnext/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T, name string) (*UserAuthService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.UserJWT.SecretKey = "test-secret"
	cfg.UserJWT.ExpireHours = 1
	cfg.Security.PasswordPolicy = config.PasswordPolicyConfig{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func TestRegisterAndLogin(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t, "user_auth_register")

	user, err := authService.Register(RegisterInput{
		Email:     "Shopper@Example.com",
		Password:  "Str0ngPass",
		FirstName: "Sam",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "shopper@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.PasswordHash == "Str0ngPass" {
		t.Fatalf("password must not be stored in plain text")
	}

	logged, token, expiresAt, err := authService.Login(LoginInput{Email: "shopper@example.com", Password: "Str0ngPass"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("unexpected login result")
	}

	claims, err := authService.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t, "user_auth_duplicate")

	if _, err := authService.Register(RegisterInput{Email: "dup@example.com", Password: "Str0ngPass"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := authService.Register(RegisterInput{Email: "DUP@example.com", Password: "Str0ngPass"}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	authService, _ := setupUserAuthServiceTest(t, "user_auth_weak")

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoNumbersHere"} {
		if _, err := authService.Register(RegisterInput{Email: "weak@example.com", Password: password}); !errors.Is(err, ErrWeakPassword) {
			t.Fatalf("expected ErrWeakPassword for %q, got %v", password, err)
		}
	}
}

func TestLoginFailures(t *testing.T) {
	authService, db := setupUserAuthServiceTest(t, "user_auth_login")

	user, err := authService.Register(RegisterInput{Email: "login@example.com", Password: "Str0ngPass"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := authService.Login(LoginInput{Email: "login@example.com", Password: "WrongPass1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, _, err := authService.Login(LoginInput{Email: "ghost@example.com", Password: "Str0ngPass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}
	if _, _, _, err := authService.Login(LoginInput{Email: "login@example.com", Password: "Str0ngPass"}); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}
