package like

import (
	"context"

	"go-firestore-portfolio/internal/model"
)

type Kind int

const (
	ProductTarget Kind = iota
	FeedbackTarget
)

func (k Kind) String() string {
	switch k {
	case ProductTarget:
		return "product"
	case FeedbackTarget:
		return "feedback"
	}
	return "unknown"
}

type Target struct {
	Kind Kind
	Id   string
}

type IRepository interface {
	// Toggle moves target in or out of the user's giveLike set and adjusts its sumLike
	// in the same transaction. It returns the resulting sumLike.
	Toggle(ctx context.Context, target Target, userUid string, dir model.LikeDirection) (int64, error)
}
