package feedback

import (
	"context"

	"go-firestore-portfolio/internal/model"
)

type FeedbackEvent struct {
	Feedback model.Feedback
	Err      error
}

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Feedback, error)
	ListByProduct(ctx context.Context, productId string) ([]model.Feedback, error)
	ListByUser(ctx context.Context, userUid string) ([]model.Feedback, error)
	// Create inserts the feedback and records the product in the author's giveFeedback.
	// It fails with NotFound when the product does not exist.
	Create(ctx context.Context, data model.Feedback) (string, error)
	NotifyOnAdded(ctx context.Context, productId string) <-chan FeedbackEvent
}
