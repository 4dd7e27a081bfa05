package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sray91/scriib-app-sub003/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminTestApp wires the real role middlewares behind a stub handler so
// the RBAC path is exercised without a database.
func buildAdminTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	ok := func(ctx iris.Context) { ctx.JSON(iris.Map{"ok": true}) }

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", ok)
		admin.Patch("/users/{id:uint}/role", utils.SuperAdminOnlyMiddleware, ok)
	}
	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func adminRequest(app *iris.Application, method, path, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+signTestToken(role))
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestAdminRoutesRBAC(t *testing.T) {
	app := buildAdminTestApp()

	if resp := adminRequest(app, http.MethodGet, "/api/admin/users", ""); resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	if resp := adminRequest(app, http.MethodGet, "/api/admin/users", "user"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp.Code)
	}

	if resp := adminRequest(app, http.MethodGet, "/api/admin/users", "admin"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp.Code)
	}
}

func TestSuperAdminOnlyRoutes(t *testing.T) {
	app := buildAdminTestApp()

	// Plain admins cannot change roles
	if resp := adminRequest(app, http.MethodPatch, "/api/admin/users/2/role", "admin"); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin role, got %d", resp.Code)
	}

	if resp := adminRequest(app, http.MethodPatch, "/api/admin/users/2/role", "super_admin"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for super_admin role, got %d", resp.Code)
	}
}
