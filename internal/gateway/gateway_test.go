package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storeadmin/internal/model"
)

func TestFetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("Unexpected method: %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Missing X-Request-ID header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	products, err := client.FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("FetchProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}
	if products[0].ID != 1 || products[0].Title != "Backpack" {
		t.Errorf("Unexpected product: %+v", products[0])
	}
	if products[0].Rating == nil || products[0].Rating.Count != 120 {
		t.Errorf("Rating not decoded: %+v", products[0].Rating)
	}
}

func TestFetchProductsByCategoryEscapesPath(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchProductsByCategory(context.Background(), "men's clothing"); err != nil {
		t.Fatalf("FetchProductsByCategory failed: %v", err)
	}
	if gotPath != "/products/category/men%27s%20clothing" {
		t.Errorf("Category not escaped, got %s", gotPath)
	}
}

func TestCreateProductEchoesID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if _, hasID := body["id"]; hasID {
			t.Error("Create payload must not carry an id")
		}
		body["id"] = 21
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	created, err := client.CreateProduct(context.Background(), model.Product{
		Title: "Mug", Price: 9.99, Category: "home", Image: "data:image/png;base64,xyz",
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if created.ID != 21 {
		t.Errorf("Expected echoed id 21, got %d", created.ID)
	}
}

func TestUpdateUserPayload(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/users/3" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":3,"username":"kevin","email":"kevin@example.com"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	updated, err := client.UpdateUser(context.Background(), model.User{
		ID: 3, Username: "kevin", Email: "kevin@example.com", Password: "secret",
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	for _, field := range []string{"id", "username", "email", "password"} {
		if _, ok := got[field]; !ok {
			t.Errorf("Update payload missing %s", field)
		}
	}
	if updated.Username != "kevin" {
		t.Errorf("Unexpected user echo: %+v", updated)
	}
}

func TestNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.FetchProducts(context.Background()); err == nil {
		t.Fatal("Expected error on 500 response")
	}
	if err := client.DeleteProduct(context.Background(), 7); err == nil {
		t.Fatal("Expected error on 500 response")
	}
}

func TestCreateCartPayload(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/carts" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":11,"userId":3,"products":[{"productId":5,"quantity":1}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	cart, err := client.CreateCart(context.Background(), 3, []model.CartItem{{ProductID: 5, Quantity: 1}})
	if err != nil {
		t.Fatalf("CreateCart failed: %v", err)
	}
	if got["userId"] != float64(3) {
		t.Errorf("Expected userId 3 in payload, got %v", got["userId"])
	}
	if cart.ID != 11 || len(cart.Products) != 1 {
		t.Errorf("Unexpected cart echo: %+v", cart)
	}
}
