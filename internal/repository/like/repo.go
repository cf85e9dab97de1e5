package like

import (
	"context"
	"fmt"

	"go-firestore-portfolio/internal/database"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/feedback"
	"go-firestore-portfolio/internal/repository/product"
	"go-firestore-portfolio/internal/repository/userinfo"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type LikeRepository struct {
	db database.Client
}

var _ IRepository = LikeRepository{}

func New(db database.Client) LikeRepository {
	return LikeRepository{
		db: db,
	}
}

func (r LikeRepository) targetRef(target Target) (*firestore.DocumentRef, error) {
	switch target.Kind {
	case ProductTarget:
		return product.DocRef(r.db, target.Id), nil
	case FeedbackTarget:
		return feedback.DocRef(r.db, target.Id), nil
	}
	return nil, fmt.Errorf("unknown like target kind %d", target.Kind)
}

func (r LikeRepository) Toggle(ctx context.Context, target Target, userUid string, dir model.LikeDirection) (int64, error) {

	targetRef, err := r.targetRef(target)
	if err != nil {
		return 0, err
	}
	userRef := userinfo.DocRef(r.db, userUid)

	var sumLike int64
	err = r.db.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		targetSnap, err := tx.Get(targetRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ierr.NotFoundf(target.Kind.String(), target.Id)
			}
			return err
		}

		current, err := targetSnap.DataAt(SumLikeFieldPath)
		if err != nil {
			current = int64(0)
		}
		sumLike, _ = current.(int64)

		user := model.UserInfo{}
		userSnap, err := tx.Get(userRef)
		switch {
		case status.Code(err) == codes.NotFound:
			// no profile yet, the merge below creates it
		case err != nil:
			return err
		default:
			if err := userSnap.DataTo(&user); err != nil {
				return err
			}
		}

		delta := Delta(user.Likes(target.Id), dir)
		if delta == 0 {
			return nil
		}

		var membership interface{} = firestore.ArrayUnion(target.Id)
		if delta < 0 {
			membership = firestore.ArrayRemove(target.Id)
		}

		if err := tx.Update(targetRef, []firestore.Update{{Path: SumLikeFieldPath, Value: firestore.Increment(delta)}}); err != nil {
			return err
		}
		if err := tx.Set(userRef, map[string]interface{}{
			userinfo.UserUidFieldPath:  userUid,
			userinfo.GiveLikeFieldPath: membership,
		}, firestore.MergeAll); err != nil {
			return err
		}

		sumLike += delta
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("toggle like: %w, %s: %s", err, target.Kind, target.Id)
	}

	log.Debug().Str("target", target.Id).Str("user", userUid).Int64("sumLike", sumLike).Msg("like toggled")
	return sumLike, nil
}
