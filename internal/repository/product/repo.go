package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-firestore-portfolio/internal/database"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/filter"
	"go-firestore-portfolio/internal/repository/tag"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ProductRepository struct {
	db  database.Client
	now func() time.Time
}

var _ IRepository = ProductRepository{}

func New(db database.Client) ProductRepository {
	return ProductRepository{
		db:  db,
		now: time.Now,
	}
}

func (r ProductRepository) GetById(ctx context.Context, id string) (*model.Product, error) {

	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(productNode).Doc(id))
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, ierr.NotFoundf("product", id)
		}
		return nil, fmt.Errorf("get product: %w, id: %s", err, id)
	}

	product := &model.Product{}
	if err = docSnap.DataTo(product); err != nil {
		return nil, fmt.Errorf("get product: %w, id: %s", err, id)
	}
	return product, nil
}

// GetByIds keeps the order of ids and skips the ones that no longer exist.
func (r ProductRepository) GetByIds(ctx context.Context, ids []string) ([]model.Product, error) {

	docRefs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		docRefs = append(docRefs, r.db.Collection(productNode).Doc(id))
	}

	snaps, err := r.db.GetDocs(ctx, docRefs)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}

	byId := make(map[string]model.Product, len(snaps))
	for _, snap := range snaps {
		p := model.Product{}
		if err := snap.DataTo(&p); err != nil {
			log.Error().Err(err).Str("doc", snap.Ref.ID).Msg("product repo: failed to convert doc to product")
			continue
		}
		byId[snap.Ref.ID] = p
	}

	products := make([]model.Product, 0, len(byId))
	for _, id := range ids {
		if p, ok := byId[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r ProductRepository) List(ctx context.Context, where []filter.Where, order []filter.Order) ([]model.Product, error) {

	products := []model.Product{}
	query := filter.Apply(r.db.Collection(productNode).Query, where, order)
	err := r.db.IterDocs(ctx, query, func(ds *firestore.DocumentSnapshot) error {
		p := model.Product{}
		if err := ds.DataTo(&p); err != nil {
			log.Error().Err(err).Str("doc", ds.Ref.ID).Msg("product repo: failed to convert doc to product")
			return nil
		}
		products = append(products, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r ProductRepository) Create(ctx context.Context, data model.Product) (string, error) {

	docRef := NewDocRef(r.db)
	data.Id = docRef.ID
	data = Prepare(data, r.now())

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(docRef, data); err != nil {
			return err
		}
		return tag.ApplyDiff(tx, r.db, data.Tags, nil, data.PostDate)
	})
	if err != nil {
		return "", fmt.Errorf("create product: %w, id: %s", err, data.Id)
	}

	return data.Id, nil
}

func (r ProductRepository) Replace(ctx context.Context, id, ownerUid string, data model.Product) (*model.Product, error) {

	docRef := r.db.Collection(productNode).Doc(id)
	var revised model.Product

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prev, err := r.getOwned(tx, docRef, ownerUid)
		if err != nil {
			return err
		}

		revised = Revise(*prev, data, r.now())
		added, removed := tag.Diff(prev.Tags, revised.Tags)

		if err := tx.Set(docRef, revised); err != nil {
			return err
		}
		return tag.ApplyDiff(tx, r.db, added, removed, revised.EditDate)
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w, id: %s", err, id)
	}

	return &revised, nil
}

func (r ProductRepository) Delete(ctx context.Context, id, ownerUid string) error {

	docRef := r.db.Collection(productNode).Doc(id)

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		prev, err := r.getOwned(tx, docRef, ownerUid)
		if err != nil {
			return err
		}

		if err := tx.Delete(docRef); err != nil {
			return err
		}
		return tag.ApplyDiff(tx, r.db, nil, prev.Tags, r.now().UTC())
	})
	if err != nil {
		return fmt.Errorf("delete product: %w, id: %s", err, id)
	}

	return nil
}

// getOwned reads the product inside tx and checks that ownerUid authored it.
func (r ProductRepository) getOwned(tx *firestore.Transaction, docRef *firestore.DocumentRef, ownerUid string) (*model.Product, error) {
	docSnap, err := tx.Get(docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFoundf("product", docRef.ID)
		}
		return nil, err
	}

	prev := &model.Product{}
	if err := docSnap.DataTo(prev); err != nil {
		return nil, err
	}

	if prev.UserUid != ownerUid {
		return nil, ierr.Denied("only the author can change this product")
	}
	return prev, nil
}
