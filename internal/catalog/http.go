package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

type Server struct {
	Store    Store
	Currency string
	Log      *zap.Logger
}

func (s *Server) Register(r chi.Router) {
	r.Get("/products", s.list)
	r.Get("/products/{id}", s.get)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	res, err := s.Store.Search(r.Context(), q)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("product search failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok, err := s.Store.Get(r.Context(), id)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get product failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, p)
}

type seedReq struct {
	N int `json:"n"`
}

func (s *Server) SeedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := seedReq{N: len(demoProducts)}
		if r.ContentLength > 0 {
			if err := kit.ReadJSON(w, r, &req); err != nil {
				kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
				return
			}
		}

		titles, err := Seed(r.Context(), s.Store, req.N, s.Currency)
		if err != nil {
			if s.Log != nil {
				s.Log.Error("seed failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
			return
		}
		kit.WriteJSON(w, http.StatusCreated, map[string]any{"seeded": titles})
	}
}

type badParamError struct{ name string }

func (e badParamError) Error() string { return "bad " + e.name }

func parseSearchQuery(r *http.Request) (SearchQuery, error) {
	var q SearchQuery

	vals := r.URL.Query()
	q.Text = strings.TrimSpace(vals.Get("q"))

	var err error
	if q.Page, err = intParam(vals.Get("page"), 1); err != nil {
		return q, badParamError{"page"}
	}
	if q.PerPage, err = intParam(vals.Get("per_page"), defaultPerPage); err != nil {
		return q, badParamError{"per_page"}
	}

	if q.MinPrice, err = priceParam(vals.Get("min_price")); err != nil {
		return q, badParamError{"min_price"}
	}
	if q.MaxPrice, err = priceParam(vals.Get("max_price")); err != nil {
		return q, badParamError{"max_price"}
	}

	return q, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func priceParam(v string) (*decimal.Decimal, error) {
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
