package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	users, err := NewMemoryUserStore(DemoUsers(), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewMemoryUserStore() error = %v", err)
	}
	tokens, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer() error = %v", err)
	}
	return NewService(users, tokens)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "user@example.com", "password123", false},
		{"username is case-sensitive", "User@Example.com", "password123", true},
		{"wrong password", "user@example.com", "password", true},
		{"unknown user", "nobody@example.com", "password123", true},
		{"empty", "", "", true},
	}

	svc := newTestService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(t.Context(), tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrUnauthorized) {
					t.Fatalf("Login() error = %v, want ErrUnauthorized", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			if res.Token == "" {
				t.Error("Login() returned empty token")
			}
			if res.User != (User{ID: 1, Username: "user@example.com", Name: "John Doe"}) {
				t.Errorf("User = %+v, want demo user", res.User)
			}
		})
	}
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Login(t.Context(), "user@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	claims, err := svc.Verify(res.Token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 1 || claims.Username != "user@example.com" || claims.Subject != "1" {
		t.Errorf("claims = %+v, want user 1", claims)
	}

	user, err := svc.CurrentUser(t.Context(), claims)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Name != "John Doe" {
		t.Errorf("Name = %q, want John Doe", user.Name)
	}
}

func TestVerify_Rejects(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)
	other, _ := NewTokenIssuer("other-secret", time.Hour)
	user := User{ID: 1, Username: "user@example.com"}

	foreign, _ := other.Issue(user)
	valid, _ := issuer.Issue(user)
	tampered := valid[:len(valid)-2] + "xx"

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"tampered signature", tampered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token); !errors.Is(err, ErrUnauthorized) {
				t.Errorf("Verify() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Minute)
	issued := time.Now().Add(-2 * time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(User{ID: 1, Username: "user@example.com"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	issuer.now = time.Now
	_, err = issuer.Verify(token)
	if !errors.Is(err, ErrUnauthorized) || !strings.Contains(err.Error(), "expired") {
		t.Errorf("Verify() error = %v, want expired ErrUnauthorized", err)
	}
}

func TestNewTokenIssuer_Invalid(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Error("NewTokenIssuer() should reject empty secret")
	}
	if _, err := NewTokenIssuer("secret", 0); err == nil {
		t.Error("NewTokenIssuer() should reject zero ttl")
	}
}

func TestMemoryUserStore_Duplicate(t *testing.T) {
	creds := append(DemoUsers(), Credential{
		User:     User{ID: 2, Username: "user@example.com"},
		Password: "x",
	})
	if _, err := NewMemoryUserStore(creds, bcrypt.MinCost); err == nil {
		t.Error("NewMemoryUserStore() should reject duplicate usernames")
	}
}

func TestMemoryUserStore_UsernamesDifferingInCase(t *testing.T) {
	creds := append(DemoUsers(), Credential{
		User:     User{ID: 2, Username: "USER@example.com", Name: "Shout"},
		Password: "loud",
	})
	store, err := NewMemoryUserStore(creds, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewMemoryUserStore() error = %v", err)
	}

	u, err := store.Authenticate(t.Context(), "USER@example.com", "loud")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if u.ID != 2 {
		t.Errorf("Authenticate() user id = %d, want 2", u.ID)
	}
	if _, err := store.Authenticate(t.Context(), "user@example.com", "loud"); err == nil {
		t.Error("Authenticate() should not match a different-case account")
	}
}

func TestMemoryUserStore_StoresHashOnly(t *testing.T) {
	store, err := NewMemoryUserStore(DemoUsers(), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewMemoryUserStore() error = %v", err)
	}
	acc := store.accounts["user@example.com"]
	if string(acc.hash) == "password123" {
		t.Error("password stored in plaintext")
	}
}

func TestCurrentUser_UnknownUser(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CurrentUser(t.Context(), &Claims{UserID: 7, Username: "ghost@example.com"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("CurrentUser() error = %v, want ErrUnauthorized", err)
	}
}
