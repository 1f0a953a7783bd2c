package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticAPIKeyValidatorParsing(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:reporting, k2")
	if err != nil {
		t.Fatalf("NewStaticAPIKeyValidator() error = %v", err)
	}
	if validator.Len() != 2 {
		t.Fatalf("Len() = %d", validator.Len())
	}
	identity, ok := validator.Validate(context.Background(), "k1")
	if !ok {
		t.Fatal("expected key to be valid")
	}
	if identity.Client != "reporting" {
		t.Fatalf("Client = %q", identity.Client)
	}
	identity, ok = validator.Validate(context.Background(), "k2")
	if !ok || identity.Client != "k2" {
		t.Fatalf("bare key identity = %+v, ok = %v", identity, ok)
	}
	if _, ok := validator.Validate(context.Background(), "k3"); ok {
		t.Fatal("unknown key accepted")
	}
}

func TestStaticAPIKeyValidatorRejectsBadSpec(t *testing.T) {
	for _, keyList := range []string{":client", "k1:", "k1:a,k1:b"} {
		if _, err := NewStaticAPIKeyValidator(keyList); err == nil {
			t.Fatalf("expected parse error for %q", keyList)
		}
	}
}

func TestMiddlewareRequiresKey(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:reporting")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	mw := Middleware(slog.New(slog.NewJSONHandler(io.Discard, nil)), validator)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, key := range []string{"", "wrong"} {
		req := httptest.NewRequest(http.MethodPost, "/ask", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("key %q: status = %d, want %d", key, rr.Code, http.StatusUnauthorized)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["error"] == "" {
			t.Fatalf("body = %s", rr.Body.String())
		}
	}
}

func TestMiddlewareInjectsIdentity(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1:reporting")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}

	mw := Middleware(nil, validator)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in context")
		}
		if identity.Client != "reporting" {
			t.Fatalf("Client = %q", identity.Client)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/ask", nil)
	req.Header.Set("Authorization", "Bearer k1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAPIKeyFromRequest(t *testing.T) {
	cases := []struct {
		name   string
		header string
		value  string
		want   string
		wantOK bool
	}{
		{name: "x-api-key", header: "X-API-Key", value: " k1 ", want: "k1", wantOK: true},
		{name: "bearer", header: "Authorization", value: "Bearer k2", want: "k2", wantOK: true},
		{name: "lowercase scheme", header: "Authorization", value: "bearer k3", want: "k3", wantOK: true},
		{name: "basic scheme", header: "Authorization", value: "Basic abc"},
		{name: "empty token", header: "Authorization", value: "Bearer  "},
		{name: "none"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/ask", nil)
			if tc.header != "" {
				req.Header.Set(tc.header, tc.value)
			}
			got, ok := APIKeyFromRequest(req)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("APIKeyFromRequest() = %q, %v", got, ok)
			}
		})
	}
}

func TestMiddlewareSetsChallengeHeader(t *testing.T) {
	validator, err := NewStaticAPIKeyValidator("k1")
	if err != nil {
		t.Fatalf("validator setup: %v", err)
	}
	handler := Middleware(nil, validator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ask", nil))
	if rr.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("missing WWW-Authenticate header")
	}
}
