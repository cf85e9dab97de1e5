package firebase

import (
	"context"
	"fmt"

	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/session"

	"firebase.google.com/go/v4/auth"
)

// AuthClient is the part of auth.Client the provider needs.
type AuthClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

type Provider struct {
	client AuthClient
}

var _ session.Provider = Provider{}

func New(client AuthClient) Provider {
	return Provider{client: client}
}

// Verify checks a Firebase ID token and loads the profile of its owner.
func (p Provider) Verify(ctx context.Context, idToken string) (*session.User, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ierr.Unauthenticated, err)
	}

	record, err := p.client.GetUser(ctx, token.UID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, fmt.Errorf("%w: user %s no longer exists", ierr.Unauthenticated, token.UID)
		}
		return nil, fmt.Errorf("get user: %w, uid: %s", err, token.UID)
	}

	return &session.User{
		Uid:         record.UID,
		DisplayName: record.DisplayName,
		PhotoURL:    record.PhotoURL,
	}, nil
}

func (p Provider) Revoke(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w, uid: %s", err, uid)
	}
	return nil
}
