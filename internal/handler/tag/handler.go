package tag

import (
	"context"
	"net/http"

	"go-firestore-portfolio/internal/handler/httpx"
)

type Service interface {
	FetchTags(ctx context.Context, substring string) ([]string, error)
}

type Handler struct {
	svc Service
}

func New(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Search handles GET /api/tags?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.FetchTags(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tags)
}
