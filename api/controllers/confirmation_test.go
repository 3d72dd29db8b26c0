package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/llatelier/storefront/internal/checkout"
	"github.com/llatelier/storefront/internal/confirm"
	"github.com/llatelier/storefront/internal/shopapi"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
)

type stubCheckoutService struct {
	session    *shopapi.CheckoutSession
	beginErr   error
	result     confirm.Result
	confirmErr error
	sessionID  string
}

func (s *stubCheckoutService) Begin(_ context.Context, _ checkout.CartReader, _ checkout.Customer) (*shopapi.CheckoutSession, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return s.session, nil
}

func (s *stubCheckoutService) Confirm(_ context.Context, sessionID string, _ confirm.CartClearer) (confirm.Result, error) {
	s.sessionID = sessionID
	return s.result, s.confirmErr
}

func TestConfirmationWithoutSessionRedirectsToCart(t *testing.T) {
	handler := CheckoutConfirmation(&stubCheckoutService{}, cartFactory(newMemStorage()), nil)

	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodGet, "/api/checkout/confirmation", nil), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 but got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/cart" {
		t.Fatalf("expected redirect to /cart, got %q", got)
	}
}

func TestConfirmationReportsConfirmedOrder(t *testing.T) {
	svc := &stubCheckoutService{
		result: confirm.Result{
			State:    confirm.StateConfirmed,
			Attempts: 2,
			Status: &shopapi.CheckoutStatus{
				PaymentStatus: "paid",
				AmountTotal:   4990,
				Metadata:      shopapi.StatusMetadata{CustomerName: "Ana", CustomerEmail: "ana@example.com"},
			},
		},
	}
	handler := CheckoutConfirmation(svc, cartFactory(newMemStorage()), nil)

	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodGet, "/api/checkout/confirmation?session_id=cs-1", nil), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if svc.sessionID != "cs-1" {
		t.Fatalf("session id not forwarded, got %q", svc.sessionID)
	}

	var envelope struct {
		Data confirmationResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode confirmation: %v", err)
	}
	if envelope.Data.State != string(confirm.StateConfirmed) || envelope.Data.Attempts != 2 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
	if envelope.Data.Order == nil || envelope.Data.Order.CustomerName != "Ana" || envelope.Data.Order.AmountTotal != 4990 {
		t.Fatalf("order summary missing: %+v", envelope.Data.Order)
	}
}

func TestConfirmationTimedOutHasNoOrder(t *testing.T) {
	svc := &stubCheckoutService{result: confirm.Result{State: confirm.StateTimedOut, Attempts: 5}}
	handler := CheckoutConfirmation(svc, cartFactory(newMemStorage()), nil)

	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodGet, "/api/checkout/confirmation?session_id=cs-1", nil), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	var envelope struct {
		Data confirmationResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode confirmation: %v", err)
	}
	if envelope.Data.State != string(confirm.StateTimedOut) || envelope.Data.Order != nil {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestBeginCheckoutReturnsPaymentURL(t *testing.T) {
	svc := &stubCheckoutService{session: &shopapi.CheckoutSession{SessionID: "cs-1", URL: "https://pay.example/cs-1"}}
	handler := BeginCheckout(svc, cartFactory(newMemStorage()), nil)

	payload := `{"name":"Ana","email":"ana@example.com"}`
	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload)), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 but got %d: %s", w.Code, w.Body.String())
	}
	var envelope struct {
		Data beginCheckoutResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode checkout response: %v", err)
	}
	if envelope.Data.URL != "https://pay.example/cs-1" || envelope.Data.SessionID != "cs-1" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestBeginCheckoutValidatesBody(t *testing.T) {
	handler := BeginCheckout(&stubCheckoutService{}, cartFactory(newMemStorage()), nil)

	payload := `{"name":"Ana","email":"not-an-email"}`
	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload)), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

func TestBeginCheckoutSurfacesDependencyFailure(t *testing.T) {
	svc := &stubCheckoutService{beginErr: pkgerrors.New(pkgerrors.CodeDependency, "shop api unreachable")}
	handler := BeginCheckout(svc, cartFactory(newMemStorage()), nil)

	payload := `{"name":"Ana","email":"ana@example.com"}`
	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(payload)), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 but got %d", w.Code)
	}
}
