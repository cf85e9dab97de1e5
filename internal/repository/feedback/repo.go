package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-firestore-portfolio/internal/database"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/filter"
	"go-firestore-portfolio/internal/repository/helper"
	"go-firestore-portfolio/internal/repository/ops"
	"go-firestore-portfolio/internal/repository/product"
	"go-firestore-portfolio/internal/repository/userinfo"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type FeedbackRepository struct {
	db  database.Client
	now func() time.Time
}

var _ IRepository = FeedbackRepository{}

func New(db database.Client) FeedbackRepository {
	return FeedbackRepository{
		db:  db,
		now: time.Now,
	}
}

func (r FeedbackRepository) GetById(ctx context.Context, id string) (*model.Feedback, error) {

	docSnap, err := r.db.GetDoc(ctx, r.db.Collection(feedbackNode).Doc(id))
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, ierr.NotFoundf("feedback", id)
		}
		return nil, fmt.Errorf("get feedback: %w, id: %s", err, id)
	}

	fb := &model.Feedback{}
	if err := docSnap.DataTo(fb); err != nil {
		return nil, fmt.Errorf("get feedback: %w, id: %s", err, id)
	}
	return fb, nil
}

func (r FeedbackRepository) ListByProduct(ctx context.Context, productId string) ([]model.Feedback, error) {
	where, order := byProductQuery(productId)
	fbs, err := r.list(ctx, where, order)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w, productId: %s", err, productId)
	}
	return fbs, nil
}

func (r FeedbackRepository) ListByUser(ctx context.Context, userUid string) ([]model.Feedback, error) {
	where, order := byUserQuery(userUid)
	fbs, err := r.list(ctx, where, order)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w, userUid: %s", err, userUid)
	}
	return fbs, nil
}

// byProductQuery selects the thread of productId, oldest first.
func byProductQuery(productId string) ([]filter.Where, []filter.Order) {
	return []filter.Where{{Path: ProductIdFieldPath, Op: ops.Equal, Value: productId}},
		[]filter.Order{{Path: PostDateFieldPath}}
}

// byUserQuery selects the feedback written by userUid, newest first.
func byUserQuery(userUid string) ([]filter.Where, []filter.Order) {
	return []filter.Where{{Path: UserUidFieldPath, Op: ops.Equal, Value: userUid}},
		[]filter.Order{{Path: PostDateFieldPath, Desc: true}}
}

func (r FeedbackRepository) list(ctx context.Context, where []filter.Where, order []filter.Order) ([]model.Feedback, error) {
	fbs := []model.Feedback{}
	query := filter.Apply(r.db.Collection(feedbackNode).Query, where, order)
	err := r.db.IterDocs(ctx, query, func(ds *firestore.DocumentSnapshot) error {
		fb := model.Feedback{}
		if err := ds.DataTo(&fb); err != nil {
			log.Error().Err(err).Str("doc", ds.Ref.ID).Msg("feedback repo: failed to convert doc to feedback")
			return nil
		}
		fbs = append(fbs, fb)
		return nil
	})
	return fbs, err
}

func (r FeedbackRepository) Create(ctx context.Context, data model.Feedback) (string, error) {

	docRef := r.db.Collection(feedbackNode).NewDoc()
	data.Id = docRef.ID
	data = Prepare(data, r.now())

	productRef := product.DocRef(r.db, data.ProductId)
	userRef := userinfo.DocRef(r.db, data.UserUid)

	err := r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(productRef); err != nil {
			if status.Code(err) == codes.NotFound {
				return ierr.NotFoundf("product", data.ProductId)
			}
			return err
		}

		if err := tx.Create(docRef, data); err != nil {
			return err
		}

		return tx.Set(userRef, map[string]interface{}{
			userinfo.UserUidFieldPath:      data.UserUid,
			userinfo.GiveFeedbackFieldPath: firestore.ArrayUnion(data.ProductId),
		}, firestore.MergeAll)
	})
	if err != nil {
		return "", fmt.Errorf("create feedback: %w, productId: %s", err, data.ProductId)
	}

	return data.Id, nil
}

func (r FeedbackRepository) NotifyOnAdded(ctx context.Context, productId string) <-chan FeedbackEvent {
	query := r.db.Collection(feedbackNode).Query
	where := []filter.Where{{Path: ProductIdFieldPath, Op: ops.Equal, Value: productId}}
	return r.notifyOnChanges(ctx, query, where, firestore.DocumentAdded)
}

func (r FeedbackRepository) notifyOnChanges(ctx context.Context, query firestore.Query, where []filter.Where, kind firestore.DocumentChangeKind) <-chan FeedbackEvent {

	ch := make(chan FeedbackEvent)
	var writeFailureCount, writeFailureThreshold = 0, 3

	go func() {
		defer close(ch)

		helper.NotifyOnChanges(ctx, r.db, query, where, kind, func(dc firestore.DocumentChange, err error) error {

			if writeFailureCount > writeFailureThreshold {
				return fmt.Errorf("write failure threshould reached")
			}

			fb := model.Feedback{}
			if err != nil {
				if !(errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
					log.Error().Err(err).Msg("feedback repo: failed to read events")
					helper.NonblockingWrite[FeedbackEvent](ctx, channelWriteTimeout, ch, FeedbackEvent{Feedback: fb, Err: err})
				}
				return err
			}

			if err := dc.Doc.DataTo(&fb); err != nil {
				log.Error().Err(err).Msg("feedback repo: failed to convert doc to feedback")
				return nil
			}

			if err := helper.NonblockingWrite[FeedbackEvent](ctx, channelWriteTimeout, ch, FeedbackEvent{Feedback: fb}); err != nil {
				writeFailureCount++
			}

			return nil
		})

	}()

	return ch
}
