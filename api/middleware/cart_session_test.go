package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestCartSessionIssuesCookieForNewVisitor(t *testing.T) {
	var seen string
	handler := CartSession("storefront_cart", time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if seen == "" {
		t.Fatal("cart id missing from context")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("cart id is not a uuid: %q", seen)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "storefront_cart" {
		t.Fatalf("expected one cart cookie, got %v", cookies)
	}
	if cookies[0].Value != seen {
		t.Fatal("cookie and context disagree on cart id")
	}
	if !cookies[0].HttpOnly {
		t.Fatal("cart cookie must be http-only")
	}
}

func TestCartSessionReusesExistingCookie(t *testing.T) {
	existing := uuid.NewString()
	var seen string
	handler := CartSession("storefront_cart", time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.AddCookie(&http.Cookie{Name: "storefront_cart", Value: existing})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if seen != existing {
		t.Fatalf("expected existing cart id %q, got %q", existing, seen)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("existing cookie must not be reissued")
	}
}

func TestCartSessionReplacesGarbageCookie(t *testing.T) {
	var seen string
	handler := CartSession("storefront_cart", time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartIDFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	r.AddCookie(&http.Cookie{Name: "storefront_cart", Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("garbage cookie must be replaced with a uuid, got %q", seen)
	}
	if len(w.Result().Cookies()) != 1 {
		t.Fatal("replacement cookie must be set")
	}
}
