package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/kataras/iris/v12"
)

func TestClerkLoginRejectsMalformedJWKS(t *testing.T) {
	jwksServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a jwk set"))
	}))
	defer jwksServer.Close()
	os.Setenv("CLERK_JWKS_URL", jwksServer.URL)

	app := iris.New()
	app.Post("/api/user/clerk", ClerkLoginOrSignUp)
	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/user/clerk",
		strings.NewReader(`{"identityToken":"eyJhbGciOiJSUzI1NiJ9.e30.sig"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a key set that fails to parse, got %d", resp.Code)
	}
}
