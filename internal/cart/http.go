package cart

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type Server struct {
	Carts *Manager
	Log   *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Get("/cart/{userID}", s.get)
	r.Post("/cart/{userID}", s.add)
	r.Put("/cart/{userID}", s.update)
	r.Delete("/cart/{userID}", s.remove)
}

type mutationReq struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	kit.WriteJSON(w, http.StatusOK, s.Carts.Get(r.Context(), userID))
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req mutationReq
	if err := kit.ReadJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	c, err := s.Carts.Add(r.Context(), userID, req.ProductID, qty)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, c)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req mutationReq
	if err := kit.ReadJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	// Absent quantity means zero, which drops the line.
	qty := 0
	if req.Quantity != nil {
		qty = *req.Quantity
	}

	c, err := s.Carts.Update(r.Context(), userID, req.ProductID, qty)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req mutationReq
	if err := kit.ReadJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	c, err := s.Carts.Remove(r.Context(), userID, req.ProductID)
	if err != nil {
		s.writeMutationError(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrMissingProduct), errors.Is(err, ErrBadQuantity):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, ErrProductNotFound), errors.Is(err, ErrLineNotFound):
		kit.WriteError(w, r, http.StatusNotFound, err.Error(), nil)
	default:
		if s.Log != nil {
			s.Log.Error("cart mutation failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}
