// internal/api/products.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storeadmin/internal/activity"
	"storeadmin/internal/logger"
	"storeadmin/internal/model"
)

// overridable in tests
var timeNow = time.Now

// productInput is the create/update payload from the UI.
type productInput struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

func (in productInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("title is required")
	}
	if in.Category == "" {
		return fmt.Errorf("category is required")
	}
	if in.Image == "" {
		return fmt.Errorf("image is required")
	}
	if in.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	if err := s.Catalog.EnsureLoaded(r.Context()); err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load products", err)
		return
	}
	writeJSON(w, http.StatusOK, s.Catalog.Products())
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	p, err := s.Catalog.LoadByID(r.Context(), id)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load product", err)
		return
	}

	s.Activity.Record(r.Context(), activity.TypeView, activity.ViewMessage(p.Title))
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProductsByCategory(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	category := r.PathValue("category")
	products, err := s.Catalog.LoadByCategory(r.Context(), category)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to load category", err)
		return
	}

	s.Activity.Record(r.Context(), activity.TypeCategory, activity.CategoryMessage(category))
	writeJSON(w, http.StatusOK, products)
}

// handleCreateProduct registers a new product. Creation goes through the
// remote create call for an id echo, but the record is maintained
// client-side from then on, so it is stored as a local product. When the
// remote call fails the creation is rejected; the UI retries on the next
// user action.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := in.validate(); err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	p := model.Product{
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Category:    in.Category,
		Image:       in.Image,
		IsLocal:     true,
	}

	echo, err := s.Gateway.CreateProduct(r.Context(), p)
	if err != nil {
		httpError(w, r, http.StatusBadGateway, "Failed to create product", err)
		return
	}
	p.ID = echo.ID

	p = s.Catalog.Create(r.Context(), p)
	s.Categories.Add(p.Category)
	s.Activity.Record(r.Context(), activity.TypeCreate, fmt.Sprintf("Created product: %s", p.Title))

	writeJSON(w, http.StatusCreated, p)
}

// handleUpdateProduct replaces a product. Remote-origin products are pushed
// to the store API first and must keep a URL image; local products only
// touch local persistence and may carry embedded data images.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := in.validate(); err != nil {
		httpError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	}

	existing, ok := s.Catalog.Get(id)
	if !ok {
		if err := s.Catalog.EnsureLoaded(r.Context()); err != nil {
			httpError(w, r, http.StatusBadGateway, "Failed to load products", err)
			return
		}
		if existing, ok = s.Catalog.Get(id); !ok {
			httpError(w, r, http.StatusNotFound, "Product not found", fmt.Errorf("product %d not found", id))
			return
		}
	}

	updated := existing
	updated.Title = in.Title
	updated.Price = in.Price
	updated.Description = in.Description
	updated.Category = in.Category
	updated.Image = in.Image

	if !existing.IsLocal {
		if updated.HasDataImage() {
			httpError(w, r, http.StatusBadRequest, "API products require a valid image URL",
				fmt.Errorf("data image on remote product %d", id))
			return
		}
		if _, err := s.Gateway.UpdateProduct(r.Context(), updated); err != nil {
			httpError(w, r, http.StatusBadGateway, "Failed to update product", err)
			return
		}
	}

	s.Catalog.Update(r.Context(), updated)
	s.Categories.Add(updated.Category)
	s.Activity.Record(r.Context(), activity.TypeUpdate, fmt.Sprintf("Updated product: %s", updated.Title))

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	logger.LogHTTPRequest(r)

	id, err := pathID(r, "id")
	if err != nil {
		httpError(w, r, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	existing, ok := s.Catalog.Get(id)
	if !ok {
		if err := s.Catalog.EnsureLoaded(r.Context()); err != nil {
			httpError(w, r, http.StatusBadGateway, "Failed to load products", err)
			return
		}
		if existing, ok = s.Catalog.Get(id); !ok {
			httpError(w, r, http.StatusNotFound, "Product not found", fmt.Errorf("product %d not found", id))
			return
		}
	}

	if !existing.IsLocal {
		if err := s.Gateway.DeleteProduct(r.Context(), id); err != nil {
			httpError(w, r, http.StatusBadGateway, "Failed to delete product", err)
			return
		}
	}

	s.Catalog.Delete(r.Context(), id)
	s.Activity.Record(r.Context(), activity.TypeDelete, fmt.Sprintf("Deleted product: %s", existing.Title))

	w.WriteHeader(http.StatusNoContent)
}
