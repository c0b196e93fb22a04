package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, usuarioID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, UserClaims{
		UsuarioID: usuarioID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestUserTokenExposesClaims(t *testing.T) {
	var got UserClaims
	var found bool
	handler := UserToken("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = UserClaimsFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/citas/pagar", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "secret", 321))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !found {
		t.Fatal("expected claims in context")
	}
	if got.UsuarioID != 321 {
		t.Fatalf("expected usuario 321, got %d", got.UsuarioID)
	}
}

func TestUserTokenWithoutTokenPassesThrough(t *testing.T) {
	var called bool
	handler := UserToken("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if _, ok := UserClaimsFromContext(r.Context()); ok {
			t.Fatal("expected no claims without a token")
		}
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/citas/draft", nil))
	if !called {
		t.Fatal("expected handler to run")
	}
}

func TestUserTokenRejectsInvalidToken(t *testing.T) {
	handler := UserToken("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/citas/pagar", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", 321))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserTokenNoopWithoutSecret(t *testing.T) {
	handler := UserToken("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserClaimsFromContext(r.Context()); ok {
			t.Fatal("expected no claims when disabled")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/citas/pagar", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
}
