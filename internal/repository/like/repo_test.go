package like

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-firestore-portfolio/internal/database/dbtest"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/product"
	"go-firestore-portfolio/internal/repository/userinfo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleProductLike(t *testing.T) {
	db := dbtest.New(t, "product", "userInfo", "tags")
	ctx := context.Background()
	products := product.New(db)
	users := userinfo.New(db)
	repo := New(db)

	id, err := products.Create(ctx, model.Product{ProductTitle: "folio", UserUid: "alice"})
	require.NoError(t, err)
	target := Target{Kind: ProductTarget, Id: id}

	n, err := repo.Toggle(ctx, target, "bob", model.Up)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Toggle(ctx, target, "bob", model.Up)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "second like by the same user is a no-op")

	bob, err := users.GetById(ctx, "bob")
	require.NoError(t, err)
	assert.Contains(t, bob.GiveLike, id)

	n, err = repo.Toggle(ctx, target, "bob", model.Down)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	bob, err = users.GetById(ctx, "bob")
	require.NoError(t, err)
	assert.NotContains(t, bob.GiveLike, id)

	_, err = repo.Toggle(ctx, Target{Kind: FeedbackTarget, Id: "missing"}, "bob", model.Up)
	assert.ErrorIs(t, err, ierr.NotFound)
}

func TestConcurrentLikesAreNotLost(t *testing.T) {
	db := dbtest.New(t, "product", "userInfo", "tags")
	ctx := context.Background()
	products := product.New(db)
	repo := New(db)

	id, err := products.Create(ctx, model.Product{ProductTitle: "folio", UserUid: "alice"})
	require.NoError(t, err)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Toggle(ctx, Target{Kind: ProductTarget, Id: id}, fmt.Sprintf("user-%d", i), model.Up)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := products.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(n), p.SumLike)
}
