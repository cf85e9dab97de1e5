package product

import (
	"context"
	"net/http"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/handler/httpx"
	"go-firestore-portfolio/internal/middleware"
	"go-firestore-portfolio/internal/model"

	"github.com/go-chi/chi/v5"
)

type Service interface {
	FetchProducts(ctx context.Context, cond model.SortCondition, dir model.SortDirection) ([]model.Product, error)
	FetchProduct(ctx context.Context, productId string) (*model.Product, error)
	CreateProduct(ctx context.Context, authorUid string, in model.ProductInput) (string, error)
	EditProduct(ctx context.Context, actorUid, productId string, in model.ProductInput) (string, error)
	DeleteProduct(ctx context.Context, actorUid, productId string) error
	CountLikeProduct(ctx context.Context, userUid, productId string, dir model.LikeDirection) (int64, error)
}

type LikeResponse struct {
	SumLike int64 `json:"sumLike"`
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /api/products?sort=&dir=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cond, err := model.ParseSortCondition(q.Get("sort"))
	if err != nil {
		httpx.WriteError(w, r, ierr.Invalid("sort", err.Error()))
		return
	}
	dir, err := model.ParseSortDirection(q.Get("dir"))
	if err != nil {
		httpx.WriteError(w, r, ierr.Invalid("dir", err.Error()))
		return
	}

	products, err := h.svc.FetchProducts(r.Context(), cond, dir)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.FetchProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, product)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to post a product"))
		return
	}

	var in model.ProductInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.CreateProduct(r.Context(), user.Uid, in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, httpx.IdResponse{Id: id})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to edit a product"))
		return
	}

	var in model.ProductInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.EditProduct(r.Context(), user.Uid, chi.URLParam(r, "id"), in)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.IdResponse{Id: id})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to delete a product"))
		return
	}

	if err := h.svc.DeleteProduct(r.Context(), user.Uid, chi.URLParam(r, "id")); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like handles POST /api/products/{id}/like?dir=up|down
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to like a product"))
		return
	}
	dir, err := model.ParseLikeDirection(r.URL.Query().Get("dir"))
	if err != nil {
		httpx.WriteError(w, r, ierr.Invalid("dir", err.Error()))
		return
	}

	sum, err := h.svc.CountLikeProduct(r.Context(), user.Uid, chi.URLParam(r, "id"), dir)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LikeResponse{SumLike: sum})
}
