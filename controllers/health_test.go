package controllers_test

import (
	"net/http"
	"testing"
)

func TestHealthStatus(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/health", nil)
	wantStatus(t, resp, http.StatusOK)

	var body struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Redis    string `json:"redis"`
	}
	decodeBody(t, resp, &body)

	if body.Status != "ok" || body.Database != "ok" {
		t.Errorf("health = %+v, want ok database", body)
	}
	if body.Redis != "disabled" {
		t.Errorf("redis = %q, want disabled without a client", body.Redis)
	}
}
