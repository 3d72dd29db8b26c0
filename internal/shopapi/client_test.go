package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestListProductsPassesCategoryFilter(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]Product{
			{ID: "p1", TitlePT: "Camisa de Linho", Price: decimal.RequireFromString("49.90")},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	products, err := client.ListProducts(context.Background(), "shirts")
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if gotPath != "/products" || gotQuery != "category=shirts" {
		t.Fatalf("unexpected request %s?%s", gotPath, gotQuery)
	}
	if len(products) != 1 || products[0].ID != "p1" {
		t.Fatalf("unexpected products %+v", products)
	}
	if !products[0].Price.Equal(decimal.RequireFromString("49.90")) {
		t.Fatalf("unexpected price %s", products[0].Price)
	}
}

func TestGetProductMapsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	_, err := client.GetProduct(context.Background(), "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCreateOrderPostsPayload(t *testing.T) {
	var received CreateOrderRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(Order{ID: "order-1", CustomerName: received.CustomerName})
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	order, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		CustomerName:  "Maria Silva",
		CustomerEmail: "maria@example.com",
		Items: []OrderItem{
			{ProductID: "p1", Title: "Camisa de Linho", Price: decimal.RequireFromString("49.90"), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order-1" {
		t.Fatalf("unexpected order %+v", order)
	}
	if received.CustomerEmail != "maria@example.com" || len(received.Items) != 1 {
		t.Fatalf("unexpected payload %+v", received)
	}
}

func TestCheckoutStatusHelpers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkout/status/sess-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(CheckoutStatus{
			PaymentStatus: "paid",
			Status:        "complete",
			AmountTotal:   10480,
			Metadata:      StatusMetadata{CustomerName: "Maria Silva"},
		})
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	status, err := client.CheckoutStatus(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("checkout status: %v", err)
	}
	if !status.Paid() || status.Expired() {
		t.Fatalf("unexpected status flags %+v", status)
	}
	if status.AmountTotal != 10480 {
		t.Fatalf("unexpected amount %d", status.AmountTotal)
	}

	if _, err := client.CheckoutStatus(context.Background(), ""); err == nil {
		t.Fatal("expected validation error for empty session id")
	}
}

func TestServerErrorsMapToDependency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, _ := NewClient(server.URL)
	err := client.SendContact(context.Background(), ContactRequest{Name: "x", Email: "x@y.z", Message: "hello"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
	if !pkgerrors.IsRetryable(err) {
		t.Fatal("dependency errors should be retryable")
	}
}

func TestNetworkFailureMapsToDependency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // refuse connections

	client, _ := NewClient(server.URL)
	_, err := client.CheckoutStatus(context.Background(), "sess-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}
