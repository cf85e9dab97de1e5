package product

import (
	"context"

	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/filter"
)

type IRepository interface {
	GetById(ctx context.Context, id string) (*model.Product, error)
	GetByIds(ctx context.Context, ids []string) ([]model.Product, error)
	List(ctx context.Context, where []filter.Where, order []filter.Order) ([]model.Product, error)
	// Create registers the product's tags and inserts it in one transaction.
	Create(ctx context.Context, data model.Product) (string, error)
	// Replace overwrites the product owned by ownerUid, see Revise.
	Replace(ctx context.Context, id, ownerUid string, data model.Product) (*model.Product, error)
	// Delete removes the product owned by ownerUid and releases its tags. Feedback is left in place.
	Delete(ctx context.Context, id, ownerUid string) error
}
