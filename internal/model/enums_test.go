package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortCondition(t *testing.T) {
	for _, c := range []SortCondition{SortTrend, SortNew, SortLikeLarge, SortLikeSmall} {
		got, err := ParseSortCondition(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	got, err := ParseSortCondition("")
	require.NoError(t, err)
	assert.Equal(t, SortTrend, got)

	_, err = ParseSortCondition("Oldest")
	assert.Error(t, err)
}

func TestParseSortDirection(t *testing.T) {
	for _, d := range []SortDirection{Asc, Desc} {
		got, err := ParseSortDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}

	_, err := ParseSortDirection("sideways")
	assert.Error(t, err)
}

func TestParseUserProductsMode(t *testing.T) {
	for _, m := range []UserProductsMode{Posted, Commented, Liked} {
		got, err := ParseUserProductsMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseUserProductsMode("like")
	require.NoError(t, err)
	assert.Equal(t, Liked, got)

	_, err = ParseUserProductsMode("FOLLOWED")
	assert.Error(t, err)
}

func TestParseLikeDirection(t *testing.T) {
	got, err := ParseLikeDirection("down")
	require.NoError(t, err)
	assert.Equal(t, Down, got)

	got, err = ParseLikeDirection("UP")
	require.NoError(t, err)
	assert.Equal(t, Up, got)

	_, err = ParseLikeDirection("LEFT")
	assert.Error(t, err)
}

func TestUserInfoLikes(t *testing.T) {
	u := UserInfo{GiveLike: []string{"p1", "f2"}}
	assert.True(t, u.Likes("f2"))
	assert.False(t, u.Likes("p2"))
}
