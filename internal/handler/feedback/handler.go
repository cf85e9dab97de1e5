package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/handler/httpx"
	"go-firestore-portfolio/internal/middleware"
	"go-firestore-portfolio/internal/model"
	feedbackRepository "go-firestore-portfolio/internal/repository/feedback"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const keepAliveInterval = 25 * time.Second

type Service interface {
	FetchFeedback(ctx context.Context, productId string) ([]model.Feedback, error)
	PostFeedbacks(ctx context.Context, userUid, text, productId string) (string, error)
	CountLikeFeedback(ctx context.Context, userUid, feedbackId string, dir model.LikeDirection) (int64, error)
	WatchFeedback(ctx context.Context, productId string) (<-chan feedbackRepository.FeedbackEvent, error)
}

type PostRequest struct {
	FeedbackText string `json:"feedbackText"`
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

// List handles GET /api/products/{id}/feedback
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	fbs, err := h.svc.FetchFeedback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, fbs)
}

// Post handles POST /api/products/{id}/feedback
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to leave feedback"))
		return
	}

	var req PostRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	id, err := h.svc.PostFeedbacks(r.Context(), user.Uid, req.FeedbackText, chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, httpx.IdResponse{Id: id})
}

// Like handles POST /api/feedback/{id}/like?dir=up|down
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, ierr.Unauthenticatedf("sign in to like feedback"))
		return
	}
	dir, err := model.ParseLikeDirection(r.URL.Query().Get("dir"))
	if err != nil {
		httpx.WriteError(w, r, ierr.Invalid("dir", err.Error()))
		return
	}

	sum, err := h.svc.CountLikeFeedback(r.Context(), user.Uid, chi.URLParam(r, "id"), dir)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, LikeResponse{SumLike: sum})
}

// Stream handles GET /api/products/{id}/feedback/stream. It sends the existing
// thread and then every new feedback as server-sent events until the client leaves.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httpx.WriteError(w, r, fmt.Errorf("response writer does not support streaming"))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	productId := chi.URLParam(r, "id")
	events, err := h.svc.WatchFeedback(ctx, productId)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	// the stream outlives the server write timeout; when a wrapper hides the deadline
	// the client reconnects and gets the thread replayed
	if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
		log.Debug().Err(err).Msg("feedback stream keeps the server write deadline")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-events:
			if !ok {
				return
			}
			if e.Err != nil {
				log.Error().Err(e.Err).Str("productId", productId).Msg("feedback stream")
				_ = writeEvent(w, "error", httpx.ErrorResponse{Error: "stream_error", Message: "feedback stream interrupted"})
				flusher.Flush()
				return
			}
			if err := writeEvent(w, "feedback", e.Feedback); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
