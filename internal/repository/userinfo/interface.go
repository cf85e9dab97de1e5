package userinfo

import (
	"context"

	"go-firestore-portfolio/internal/model"
)

type IRepository interface {
	GetById(ctx context.Context, userUid string) (*model.UserInfo, error)
	// Upsert writes the profile fields only; giveLike and giveFeedback are left untouched.
	Upsert(ctx context.Context, userUid string, profile model.Profile) error
	IsRegistered(ctx context.Context, userUid string) (bool, error)
}
