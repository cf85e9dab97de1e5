package userinfo

import (
	"context"
	"net/http"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/handler/httpx"
	"go-firestore-portfolio/internal/middleware"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/session"

	"github.com/go-chi/chi/v5"
)

type Service interface {
	FetchUserInfo(ctx context.Context, userUid string) (*model.UserInfo, error)
	FetchProductsUser(ctx context.Context, userUid string, mode model.UserProductsMode) ([]model.Product, error)
	PostUserInfo(ctx context.Context, userUid string, profile model.Profile) error
	IsRegistered(ctx context.Context, userUid string) (bool, error)
}

type SessionResponse struct {
	User       *session.User `json:"user"`
	Registered bool          `json:"registered"`
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.FetchUserInfo(r.Context(), chi.URLParam(r, "uid"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, info)
}

// Products handles GET /api/users/{uid}/products?mode=posted|feedback|like
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseUserProductsMode(r.URL.Query().Get("mode"))
	if err != nil {
		httpx.WriteError(w, r, ierr.Invalid("mode", err.Error()))
		return
	}

	products, err := h.svc.FetchProductsUser(r.Context(), chi.URLParam(r, "uid"), mode)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

// PutMe saves the profile of the signed-in user, which completes registration.
func (h *Handler) PutMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to edit your profile"))
		return
	}

	var profile model.Profile
	if err := httpx.DecodeJSON(w, r, &profile); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.svc.PostUserInfo(r.Context(), user.Uid, profile); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{User: user, Registered: true})
}

// Session handles GET /api/session: the caller and whether they finished registration.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("not signed in"))
		return
	}

	registered, err := h.svc.IsRegistered(r.Context(), user.Uid)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{User: user, Registered: registered})
}
