package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kataras/iris/v12"
)

func TestJSONPage(t *testing.T) {
	app := iris.New()
	app.Get("/things", func(ctx iris.Context) {
		JSONPage(ctx, []string{"a", "b"}, 2, 25, 51)
	})

	if err := app.Build(); err != nil {
		t.Fatalf("failed to build app: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/things", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	var envelope struct {
		Data []string `json:"data"`
		Meta PageMeta `json:"meta"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 rows, got %v", envelope.Data)
	}
	if envelope.Meta.Page != 2 || envelope.Meta.PerPage != 25 || envelope.Meta.Total != 51 {
		t.Fatalf("meta round-tripped wrong: %+v", envelope.Meta)
	}
}
