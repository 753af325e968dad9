package service

import (
	"errors"
	"testing"
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/validation"
)

func newAuthService(userRepo *mockUserRepo) *AuthService {
	return NewAuthService(userRepo, "test-secret", false, time.Hour)
}

func TestSignInAnonymously(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFunc: func(u *model.User) error {
			created = u
			return nil
		},
	}
	svc := newAuthService(repo)

	user, err := svc.SignInAnonymously()
	if err != nil {
		t.Fatalf("SignInAnonymously() error = %v", err)
	}
	if created == nil {
		t.Fatal("guest was not persisted")
	}
	if !user.IsGuest {
		t.Error("user should be a guest")
	}
	if user.IntegrityScore != model.StartingScore {
		t.Errorf("IntegrityScore = %d, want %d", user.IntegrityScore, model.StartingScore)
	}
	if user.Email != nil {
		t.Error("guest should have no email")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	email := "taken@example.com"
	repo := &mockUserRepo{
		byEmailFunc: func(e string) (*model.User, error) {
			return &model.User{ID: "u1", Email: &email}, nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.Register("taken@example.com", "orange-stapler-moonlight")
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Fatalf("Register() error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Register("new@example.com", "short")
	var verr validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Register() error = %v, want validation.Error", err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFunc: func(u *model.User) error {
			created = u
			return nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.Register("  New@Example.COM ", "orange-stapler-moonlight")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created.Email == nil || *created.Email != "new@example.com" {
		t.Errorf("Email = %v, want new@example.com", created.Email)
	}
	if created.IntegrityScore != model.StartingScore {
		t.Errorf("IntegrityScore = %d, want %d", created.IntegrityScore, model.StartingScore)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	hash, err := svc.HashPassword("the-correct-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	email := "user@example.com"
	repo := &mockUserRepo{
		byEmailFunc: func(e string) (*model.User, error) {
			return &model.User{ID: "u1", Email: &email, PasswordHash: &hash}, nil
		},
	}
	svc = newAuthService(repo)

	_, err = svc.Login("user@example.com", "the-wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}

	user, err := svc.Login("user@example.com", "the-correct-password")
	if err != nil {
		t.Fatalf("Login() with correct password: error = %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want u1", user.ID)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Login("nobody@example.com", "whatever-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	email := "oauth@example.com"
	repo := &mockUserRepo{
		byEmailFunc: func(e string) (*model.User, error) {
			return &model.User{ID: "u1", Email: &email}, nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.Login("oauth@example.com", "any-password-at-all")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateOAuthFindsExisting(t *testing.T) {
	email := "existing@example.com"
	repo := &mockUserRepo{
		byEmailFunc: func(e string) (*model.User, error) {
			return &model.User{ID: "u1", Email: &email, IntegrityScore: 72}, nil
		},
	}
	svc := newAuthService(repo)

	user, err := svc.AuthenticateOAuth("existing@example.com")
	if err != nil {
		t.Fatalf("AuthenticateOAuth() error = %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want the existing user", user.ID)
	}
	if user.IntegrityScore != 72 {
		t.Error("existing score must be preserved")
	}
}

func TestAuthenticateOAuthCreatesNew(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFunc: func(u *model.User) error {
			created = u
			return nil
		},
	}
	svc := newAuthService(repo)

	_, err := svc.AuthenticateOAuth("new@example.com")
	if err != nil {
		t.Fatalf("AuthenticateOAuth() error = %v", err)
	}
	if created == nil {
		t.Fatal("user was not created")
	}
	if created.PasswordHash != nil {
		t.Error("OAuth users have no password hash")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	user := &model.User{ID: "u1", IsGuest: true}
	token, err := svc.GenerateJWT(user)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := svc.VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT() error = %v", err)
	}
	if claims["user_id"] != "u1" {
		t.Errorf("user_id claim = %v, want u1", claims["user_id"])
	}
	if claims["is_guest"] != true {
		t.Errorf("is_guest claim = %v, want true", claims["is_guest"])
	}
}

func TestVerifyJWTWrongSecret(t *testing.T) {
	token, err := newAuthService(&mockUserRepo{}).GenerateJWT(&model.User{ID: "u1"})
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	other := NewAuthService(&mockUserRepo{}, "different-secret", false, time.Hour)
	_, err = other.VerifyJWT(token)
	if err == nil {
		t.Fatal("VerifyJWT() accepted a token signed with another secret")
	}
}

func TestVerifyJWTExpired(t *testing.T) {
	svc := NewAuthService(&mockUserRepo{}, "test-secret", false, -time.Hour)

	token, err := svc.GenerateJWT(&model.User{ID: "u1"})
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	_, err = svc.VerifyJWT(token)
	if err == nil {
		t.Fatal("VerifyJWT() accepted an expired token")
	}
}
