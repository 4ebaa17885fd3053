package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/boardofone/advisory-backend/internal/core/domain"
	"github.com/boardofone/advisory-backend/internal/platform/config"
)

func testHandler() *Handler {
	logger := zerolog.Nop()

	return NewHandler(&config.Config{
		DetectionRPS:   100,
		DetectionBurst: 100,
		MaxRequestBody: 1 << 20,
	}, Deps{}, &logger)
}

func TestHashTokenIsStableAndOpaque(t *testing.T) {
	a := HashToken("secret-token")
	b := HashToken("secret-token")

	if a != b {
		t.Fatal("hash must be deterministic")
	}

	if a == "secret-token" || len(a) != 64 {
		t.Fatalf("unexpected hash %q", a)
	}

	if HashToken("other-token") == a {
		t.Fatal("different tokens must hash differently")
	}
}

func TestDispatchUnknownRoute(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	if !strings.Contains(rec.Body.String(), "not_found") {
		t.Fatalf("expected error code in body, got %s", rec.Body.String())
	}
}

func TestDispatchOutsidePrefix(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/other", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRequestWithoutTokenIsUnauthorized(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/context", nil)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestSetMetricField(t *testing.T) {
	bc := &domain.BusinessContext{}

	if !setMetricField(bc, "churn_rate", "4%") {
		t.Fatal("churn_rate should be settable")
	}

	if bc.ChurnRate != "4%" {
		t.Fatalf("churn rate not set: %+v", bc)
	}

	if setMetricField(bc, "unknown_field", "x") {
		t.Fatal("unknown field must not be settable")
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"question":"`+strings.Repeat("a", 100)+`"}`))
	rec := httptest.NewRecorder()

	var dst researchRequest
	if err := decodeJSON(rec, req, 10, &dst); err == nil {
		t.Fatal("expected error for oversized body")
	}
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"question":"q","extra":true}`))
	rec := httptest.NewRecorder()

	var dst researchRequest
	if err := decodeJSON(rec, req, 1<<20, &dst); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestIPLimiter(t *testing.T) {
	l := newIPLimiter(1, 1)

	reqA := httptest.NewRequest(http.MethodPost, "/", nil)
	reqA.RemoteAddr = "10.0.0.1:1234"

	reqB := httptest.NewRequest(http.MethodPost, "/", nil)
	reqB.RemoteAddr = "10.0.0.2:1234"

	if !l.Allow(reqA) {
		t.Fatal("first request should pass")
	}

	if l.Allow(reqA) {
		t.Fatal("burst exhausted, second request should be limited")
	}

	if !l.Allow(reqB) {
		t.Fatal("other IPs must not share the limit")
	}
}
