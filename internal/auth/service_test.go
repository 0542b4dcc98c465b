package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	logpkg "github.com/cdJohnEl/PocketLens/internal/log"
)

func newIdentityStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req identityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		fail := func(code string) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": code},
			})
		}

		switch {
		case !strings.Contains(req.Email, "@"):
			fail("INVALID_EMAIL")
		case strings.Contains(r.URL.Path, "signUp") && req.Email == "taken@example.com":
			fail("EMAIL_EXISTS")
		case strings.Contains(r.URL.Path, "signUp") && len(req.Password) < 6:
			fail("WEAK_PASSWORD : Password should be at least 6 characters")
		case strings.Contains(r.URL.Path, "signInWithPassword") && req.Email == "nobody@example.com":
			fail("EMAIL_NOT_FOUND")
		case strings.Contains(r.URL.Path, "signInWithPassword") && req.Password != "correct-horse":
			fail("INVALID_LOGIN_CREDENTIALS")
		default:
			json.NewEncoder(w).Encode(map[string]any{
				"localId": "uid-123",
				"email":   req.Email,
			})
		}
	}))
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	stub := newIdentityStub(t)
	t.Cleanup(stub.Close)
	return NewService("test-key", stub.URL, logpkg.New(logpkg.DefaultConfig()))
}

func TestSignInAndCurrentUser(t *testing.T) {
	svc := newTestService(t)

	user, token, err := svc.SignIn(context.Background(), "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	if user.ID != "uid-123" {
		t.Errorf("user ID = %q", user.ID)
	}
	if token == "" {
		t.Fatal("expected session token")
	}

	got, err := svc.CurrentUser(token)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("Email = %q", got.Email)
	}

	svc.SignOut(token)
	if _, err := svc.CurrentUser(token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession after sign-out, got %v", err)
	}
}

func TestSignInErrorKinds(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantKind Kind
		wantMsg  string
	}{
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "whatever",
			wantKind: KindUserNotFound,
			wantMsg:  "No account found with this email address.",
		},
		{
			name:     "wrong password",
			email:    "ada@example.com",
			password: "wrong",
			wantKind: KindWrongPassword,
			wantMsg:  "Incorrect password. Please try again.",
		},
		{
			name:     "malformed email",
			email:    "not-an-email",
			password: "correct-horse",
			wantKind: KindInvalidEmail,
			wantMsg:  "Please enter a valid email address.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SignIn(context.Background(), tt.email, tt.password)
			var authErr *Error
			if !errors.As(err, &authErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if authErr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", authErr.Kind, tt.wantKind)
			}
			if authErr.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", authErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestSignUpErrorKinds(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.SignUp(context.Background(), "taken@example.com", "correct-horse")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindEmailExists {
		t.Errorf("expected email-exists error, got %v", err)
	}

	_, _, err = svc.SignUp(context.Background(), "new@example.com", "abc")
	if !errors.As(err, &authErr) || authErr.Kind != KindWeakPassword {
		t.Errorf("expected weak-password error, got %v", err)
	}
	if authErr.Message != "Password should be at least 6 characters long." {
		t.Errorf("Message = %q", authErr.Message)
	}
}

func TestUnconfiguredService(t *testing.T) {
	svc := NewService("", "", logpkg.New(logpkg.DefaultConfig()))

	if svc.Configured() {
		t.Error("Configured() = true without API key")
	}

	_, _, err := svc.SignIn(context.Background(), "a@b.com", "pw")
	var authErr *Error
	if !errors.As(err, &authErr) || authErr.Kind != KindNotConfigured {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}

func TestAuthStateBroadcast(t *testing.T) {
	svc := newTestService(t)

	states, cancel := svc.Subscribe()
	defer cancel()

	_, token, err := svc.SignIn(context.Background(), "ada@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	state := <-states
	if state.User == nil || state.User.ID != "uid-123" {
		t.Errorf("expected signed-in state, got %+v", state)
	}

	svc.SignOut(token)
	state = <-states
	if state.User != nil {
		t.Errorf("expected signed-out state, got %+v", state)
	}
}
