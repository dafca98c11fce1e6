package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const defaultPaymentMethod = "card"

type Server struct {
	Orders *Processor
	Log    *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Post("/checkout/{userID}", s.checkout)
}

type checkoutReq struct {
	PaymentMethod string         `json:"payment_method"`
	Customer      map[string]any `json:"customer"`
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req checkoutReq
	if err := kit.ReadJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = defaultPaymentMethod
	}

	o, err := s.Orders.Checkout(r.Context(), userID, req.PaymentMethod, req.Customer)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			kit.WriteError(w, r, http.StatusBadRequest, "cart empty", nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("checkout failed", zap.Error(err), zap.String("user_id", userID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, o)
}
