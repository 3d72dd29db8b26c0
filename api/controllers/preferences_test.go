package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/llatelier/storefront/internal/shopapi"
)

type stubPrefs struct {
	languages map[string]string
}

func (s *stubPrefs) Language(_ context.Context, cartID string) (string, error) {
	if lang, ok := s.languages[cartID]; ok {
		return lang, nil
	}
	return "pt", nil
}

func (s *stubPrefs) SetLanguage(_ context.Context, cartID, language string) error {
	s.languages[cartID] = language
	return nil
}

func TestGetLanguageDefaults(t *testing.T) {
	handler := GetLanguage(&stubPrefs{languages: map[string]string{}}, nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, withCartID(httptest.NewRequest(http.MethodGet, "/api/preferences/language", nil), "cart-1"))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d", w.Code)
	}
	var envelope struct {
		Data languageResponse `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode language: %v", err)
	}
	if envelope.Data.Language != "pt" {
		t.Fatalf("expected default pt, got %q", envelope.Data.Language)
	}
}

func TestSetLanguageRoundTrip(t *testing.T) {
	prefs := &stubPrefs{languages: map[string]string{}}
	handler := SetLanguage(prefs, nil)

	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodPut, "/api/preferences/language", strings.NewReader(`{"language":"en"}`)), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 but got %d: %s", w.Code, w.Body.String())
	}
	if prefs.languages["cart-1"] != "en" {
		t.Fatal("language choice was not stored")
	}
}

func TestSetLanguageRejectsUnsupported(t *testing.T) {
	handler := SetLanguage(&stubPrefs{languages: map[string]string{}}, nil)

	w := httptest.NewRecorder()
	r := withCartID(httptest.NewRequest(http.MethodPut, "/api/preferences/language", strings.NewReader(`{"language":"fr"}`)), "cart-1")
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}

type stubContactSender struct {
	received *shopapi.ContactRequest
	err      error
}

func (s *stubContactSender) SendContact(_ context.Context, req shopapi.ContactRequest) error {
	s.received = &req
	return s.err
}

func TestSendContactForwardsPayload(t *testing.T) {
	sender := &stubContactSender{}
	handler := SendContact(sender, nil)

	payload := `{"name":"Ana","email":"ana@example.com","message":"Olá"}`
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(payload)))

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 but got %d: %s", w.Code, w.Body.String())
	}
	if sender.received == nil || sender.received.Message != "Olá" {
		t.Fatalf("payload not forwarded: %+v", sender.received)
	}
}

func TestSendContactValidatesBody(t *testing.T) {
	handler := SendContact(&stubContactSender{}, nil)

	payload := `{"name":"Ana","email":"ana@example.com"}`
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(payload)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", w.Code)
	}
}
