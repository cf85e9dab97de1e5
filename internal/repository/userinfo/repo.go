package userinfo

import (
	"context"
	"errors"
	"fmt"

	"go-firestore-portfolio/internal/database"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"

	"cloud.google.com/go/firestore"
)

type UserInfoRepository struct {
	db database.Client
}

var _ IRepository = UserInfoRepository{}

func New(db database.Client) UserInfoRepository {
	return UserInfoRepository{
		db: db,
	}
}

// DocRef points at the UserInfo doc of userUid, for transactions spanning collections.
func DocRef(db database.Client, userUid string) *firestore.DocumentRef {
	return db.Collection(userInfoNode).Doc(userUid)
}

func (r UserInfoRepository) GetById(ctx context.Context, userUid string) (*model.UserInfo, error) {

	docSnap, err := r.db.GetDoc(ctx, DocRef(r.db, userUid))
	if err != nil {
		if errors.Is(err, ierr.NotFound) {
			return nil, ierr.NotFoundf("userInfo", userUid)
		}
		return nil, fmt.Errorf("get user info: %w, uid: %s", err, userUid)
	}

	info := &model.UserInfo{}
	if err := docSnap.DataTo(info); err != nil {
		return nil, fmt.Errorf("get user info: %w, uid: %s", err, userUid)
	}
	info.UserUid = userUid
	return info, nil
}

// ProfileData is the merge payload that writes profile without touching the like
// and feedback sets of the doc.
func ProfileData(userUid string, profile model.Profile) map[string]interface{} {
	return map[string]interface{}{
		UserUidFieldPath:    userUid,
		NameFieldPath:       profile.Name,
		UserIconFieldPath:   profile.UserIcon,
		CommentFieldPath:    profile.Comment,
		GithubUrlFieldPath:  profile.GithubUrl,
		TwitterUrlFieldPath: profile.TwitterUrl,
		OtherUrlFieldPath:   profile.OtherUrl,
	}
}

func (r UserInfoRepository) Upsert(ctx context.Context, userUid string, profile model.Profile) error {
	data := ProfileData(userUid, profile)
	if _, err := r.db.SetDoc(ctx, DocRef(r.db, userUid), data, firestore.MergeAll); err != nil {
		return fmt.Errorf("upsert user info: %w, uid: %s", err, userUid)
	}
	return nil
}

// IsRegistered reports whether a profile was ever written for userUid.
// A doc created only by a like or feedback has no name and does not count.
func (r UserInfoRepository) IsRegistered(ctx context.Context, userUid string) (bool, error) {
	info, err := r.GetById(ctx, userUid)
	if errors.Is(err, ierr.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Name != "", nil
}
