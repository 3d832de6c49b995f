// internal/api/cart.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"storeadmin/internal/activity"
	"storeadmin/internal/logger"
	"storeadmin/internal/model"
)

// cartView is the cart plus its derived total.
type cartView struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int              `json:"totalItems"`
}

func (s *Server) cartView() cartView {
	items := s.Cart.Items()
	if items == nil {
		items = []model.CartItem{}
	}
	return cartView{Items: items, TotalItems: s.Cart.TotalItems()}
}

// productTitle resolves a title for activity messages, falling back to the
// id when the product is not cached.
func (s *Server) productTitle(id int64) string {
	if p, ok := s.Catalog.Get(id); ok {
		return p.Title
	}
	return fmt.Sprintf("product %d", id)
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)
	writeJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	s.Cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, s.cartView())
}

// handleAddCartItem records the add with the remote cart endpoint and then
// applies it locally; a remote failure leaves the cart as it was.
func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	var in struct {
		ProductID int64 `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if in.ProductID <= 0 {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", fmt.Errorf("invalid product id %d", in.ProductID))
		return
	}

	if err := s.Cart.SyncAdd(r.Context(), s.userID(), in.ProductID); err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to add to cart", err)
		return
	}

	s.Activity.Record(r.Context(), activity.TypeCart, activity.CartMessage("add", s.productTitle(in.ProductID)))
	writeJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleIncreaseCartItem(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	s.Cart.Increase(r.Context(), id)
	s.Activity.Record(r.Context(), activity.TypeCart, activity.CartMessage("increase", s.productTitle(id)))
	writeJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleDecreaseCartItem(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	s.Cart.Decrease(r.Context(), id)
	s.Activity.Record(r.Context(), activity.TypeCart, activity.CartMessage("decrease", s.productTitle(id)))
	writeJSON(w, http.StatusOK, s.cartView())
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	title := s.productTitle(id)
	s.Cart.Remove(r.Context(), id)
	s.Activity.Record(r.Context(), activity.TypeCart, activity.CartMessage("remove", title))
	writeJSON(w, http.StatusOK, s.cartView())
}

// cartLineDetail is a remote cart line enriched with the product record.
type cartLineDetail struct {
	model.CartItem
	Details model.Product `json:"details"`
}

type cartDetail struct {
	ID       int64            `json:"id"`
	UserID   int64            `json:"userId"`
	Date     string           `json:"date,omitempty"`
	Products []cartLineDetail `json:"products"`
}

// handleCartDetail fetches a remote cart and enriches each line with the
// product record via the catalog's detail cache.
func (s *Server) handleCartDetail(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid cart id", err)
		return
	}

	remoteCart, err := s.Gateway.FetchCart(r.Context(), id)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load cart", err)
		return
	}

	detail := cartDetail{
		ID:       remoteCart.ID,
		UserID:   remoteCart.UserID,
		Date:     remoteCart.Date,
		Products: make([]cartLineDetail, 0, len(remoteCart.Products)),
	}
	for _, line := range remoteCart.Products {
		p, err := s.Catalog.LoadByID(r.Context(), line.ProductID)
		if err != nil {
			httpError(w, r, http.StatusBadGateway, "Failed to load cart product", err)
			return
		}
		detail.Products = append(detail.Products, cartLineDetail{CartItem: line, Details: p})
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUserCarts(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	userID, err := pathID(r, "userId")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	carts, err := s.Gateway.FetchCartsByUser(r.Context(), userID)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load carts", err)
		return
	}
	if carts == nil {
		carts = []model.Cart{}
	}
	writeJSON(w, http.StatusOK, carts)
}
