package firebase

import (
	"context"
	"errors"
	"testing"

	ierr "go-firestore-portfolio/internal/errors"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	tokens  map[string]string
	users   map[string]*auth.UserRecord
	revoked []string
}

func (f *fakeAuth) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("ID token has invalid signature")
	}
	return &auth.Token{UID: uid}, nil
}

func (f *fakeAuth) GetUser(_ context.Context, uid string) (*auth.UserRecord, error) {
	u, ok := f.users[uid]
	if !ok {
		return nil, errors.New("backend unavailable")
	}
	return u, nil
}

func (f *fakeAuth) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revoked = append(f.revoked, uid)
	return nil
}

func TestVerify(t *testing.T) {
	client := &fakeAuth{
		tokens: map[string]string{"good": "u1", "ghost": "u2"},
		users: map[string]*auth.UserRecord{
			"u1": {UserInfo: &auth.UserInfo{UID: "u1", DisplayName: "Ada", PhotoURL: "https://example.com/ada.png"}},
		},
	}
	p := New(client)
	ctx := context.Background()

	user, err := p.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.Uid)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, "https://example.com/ada.png", user.PhotoURL)

	_, err = p.Verify(ctx, "forged")
	assert.ErrorIs(t, err, ierr.Unauthenticated)

	_, err = p.Verify(ctx, "ghost")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ierr.Unauthenticated)
}

func TestRevoke(t *testing.T) {
	client := &fakeAuth{}
	require.NoError(t, New(client).Revoke(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, client.revoked)
}
