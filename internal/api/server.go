// internal/api/server.go

// Package api exposes the stores to a detached UI as a JSON surface. The
// handlers own the caller-level preconditions (image validation, activity
// recording); the stores assume valid records.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"storeadmin/internal/activity"
	"storeadmin/internal/cart"
	"storeadmin/internal/catalog"
	"storeadmin/internal/dashboard"
	"storeadmin/internal/gateway"
	"storeadmin/internal/logger"
	"storeadmin/internal/model"
	"storeadmin/internal/user"
)

// Server bundles the stores behind the HTTP surface.
type Server struct {
	Catalog       *catalog.Store
	Categories    *catalog.Categories
	Cart          *cart.Store
	Activity      *activity.Log
	Dashboard     *dashboard.Aggregator
	Users         *user.Store
	Gateway       *gateway.Client
	DefaultUserID int64
}

// Routes wires every endpoint onto a fresh mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("POST /api/products", s.handleCreateProduct)
	mux.HandleFunc("GET /api/products/category/{category}", s.handleProductsByCategory)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("PUT /api/products/{id}", s.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/products/{id}", s.handleDeleteProduct)

	mux.HandleFunc("GET /api/categories", s.handleCategories)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/cart", s.handleGetCart)
	mux.HandleFunc("DELETE /api/cart", s.handleClearCart)
	mux.HandleFunc("POST /api/cart/items", s.handleAddCartItem)
	mux.HandleFunc("POST /api/cart/items/{id}/increase", s.handleIncreaseCartItem)
	mux.HandleFunc("POST /api/cart/items/{id}/decrease", s.handleDecreaseCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", s.handleRemoveCartItem)

	mux.HandleFunc("GET /api/carts/user/{userId}", s.handleUserCarts)
	mux.HandleFunc("GET /api/carts/{id}", s.handleCartDetail)

	mux.HandleFunc("GET /api/activity", s.handleActivity)
	mux.HandleFunc("DELETE /api/activity", s.handleClearActivity)

	mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	mux.HandleFunc("PUT /api/users/{id}", s.handleUpdateUser)

	return mux
}

// userID resolves the acting account: the cached profile when one was
// fetched, otherwise the configured default.
func (s *Server) userID() int64 {
	if u, ok := s.Users.Current(); ok {
		return u.ID
	}
	return s.DefaultUserID
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	labels, err := s.Categories.Load(r.Context())
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load categories", err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	snapshot, err := s.Dashboard.Refresh(r.Context())
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to refresh dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// activityView is an Entry plus its display age.
type activityView struct {
	activity.Entry
	Age string `json:"age"`
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	entries := s.Activity.Entries()
	views := make([]activityView, len(entries))
	for i, e := range entries {
		views[i] = activityView{Entry: e, Age: activity.Age(e, timeNow())}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleClearActivity(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	s.Activity.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	u, err := s.Users.Get(r.Context(), id)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	var u model.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	u.ID = id

	updated, err := s.Users.Update(r.Context(), u)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to update user", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

//
// --- Shared helpers ---
//

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.LogError("Failed to encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	logger.LogHTTPError(r, status, err)
	http.Error(w, message, status)
}
