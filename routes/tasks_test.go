package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/kataras/iris/v12"
)

func TestTaskSecretMiddleware(t *testing.T) {
	os.Setenv("TASKS_SECRET", "sweep-secret")
	app := iris.New()
	tasks := app.Party("/api/tasks", TaskSecretMiddleware)
	tasks.Post("/ping", func(ctx iris.Context) { ctx.JSON(iris.Map{"ok": true}) })
	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	call := func(secret string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/tasks/ping", nil)
		if secret != "" {
			req.Header.Set("X-Task-Secret", secret)
		}
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)
		return resp.Code
	}

	if code := call(""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without secret, got %d", code)
	}
	if code := call("wrong"); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong secret, got %d", code)
	}
	if code := call("sweep-secret"); code != http.StatusOK {
		t.Fatalf("expected 200 with correct secret, got %d", code)
	}

	// An unset server secret must fail closed
	os.Setenv("TASKS_SECRET", "")
	if code := call(""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 when server secret unset, got %d", code)
	}
	os.Setenv("TASKS_SECRET", "sweep-secret")
}
