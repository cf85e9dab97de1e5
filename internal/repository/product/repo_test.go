package product

import (
	"context"
	"testing"
	"time"

	"go-firestore-portfolio/internal/database/dbtest"
	ierr "go-firestore-portfolio/internal/errors"
	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/filter"
	"go-firestore-portfolio/internal/repository/ops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductLifecycle(t *testing.T) {
	db := dbtest.New(t, productNode, "tags")
	ctx := context.Background()
	repo := New(db)

	in := model.Product{
		ProductTitle: "folio",
		Tags:         []string{"React", "TypeScript"},
		MainText:     "# hello",
		UserUid:      "alice",
	}

	id, err := repo.Create(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.GetById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.Id)
	assert.Equal(t, "folio", got.ProductTitle)
	assert.Equal(t, int64(0), got.SumLike)
	assert.True(t, got.PostDate.Equal(got.EditDate))

	_, err = repo.Replace(ctx, id, "mallory", model.Product{ProductTitle: "hijack"})
	assert.ErrorIs(t, err, ierr.PermissionDenied)

	edited, err := repo.Replace(ctx, id, "alice", model.Product{ProductTitle: "folio v2", Tags: []string{"Go"}})
	require.NoError(t, err)
	assert.True(t, edited.PostDate.Equal(got.PostDate))
	assert.True(t, edited.EditDate.After(got.EditDate))

	mine, err := repo.List(ctx, []filter.Where{{Path: UserUidFieldPath, Op: ops.Equal, Value: "alice"}}, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "folio v2", mine[0].ProductTitle)

	byIds, err := repo.GetByIds(ctx, []string{"missing", id})
	require.NoError(t, err)
	require.Len(t, byIds, 1)
	assert.Equal(t, id, byIds[0].Id)

	assert.ErrorIs(t, repo.Delete(ctx, id, "mallory"), ierr.PermissionDenied)
	require.NoError(t, repo.Delete(ctx, id, "alice"))

	_, err = repo.GetById(ctx, id)
	assert.ErrorIs(t, err, ierr.NotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id, "alice"), ierr.NotFound)
}

func TestListOrderedByPostDateDesc(t *testing.T) {
	db := dbtest.New(t, productNode, "tags")
	ctx := context.Background()
	repo := New(db)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return at }
		_, err := repo.Create(ctx, model.Product{ProductTitle: at.Format(time.RFC3339), UserUid: "alice"})
		require.NoError(t, err)
	}

	products, err := repo.List(ctx, nil, []filter.Order{{Path: PostDateFieldPath, Desc: true}})
	require.NoError(t, err)
	require.Len(t, products, 3)
	for i := 1; i < len(products); i++ {
		assert.True(t, products[i-1].PostDate.After(products[i].PostDate))
	}
}
