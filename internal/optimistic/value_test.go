package optimistic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit(t *testing.T) {
	v := New[int64](3)
	assert.Equal(t, Committed, v.State())

	shown, err := v.Begin(4)
	require.NoError(t, err)
	assert.EqualValues(t, 4, shown)
	assert.EqualValues(t, 4, v.Get())
	assert.Equal(t, Pending, v.State())

	_, err = v.Begin(5)
	assert.ErrorIs(t, err, ErrPending)
	assert.EqualValues(t, 4, v.Get())

	// the server may disagree with the guess
	v.Commit(7)
	assert.EqualValues(t, 7, v.Get())
	assert.Equal(t, Committed, v.State())
	assert.NoError(t, v.Err())
}

func TestFailRollsBack(t *testing.T) {
	v := New("draft")
	_, err := v.Begin("edited")
	require.NoError(t, err)

	boom := errors.New("permission denied")
	assert.Equal(t, "draft", v.Fail(boom))
	assert.Equal(t, "draft", v.Get())
	assert.Equal(t, Failed, v.State())
	assert.ErrorIs(t, v.Err(), boom)

	// a new attempt clears the error
	_, err = v.Begin("again")
	require.NoError(t, err)
	assert.NoError(t, v.Err())
}

func TestApply(t *testing.T) {
	v := New[int64](10)

	got, err := v.Apply(11, func() (int64, error) {
		assert.Equal(t, Pending, v.State())
		assert.EqualValues(t, 11, v.Get(), "the guess is shown while the write runs")
		return 11, nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 11, got)

	boom := errors.New("offline")
	got, err = v.Apply(12, func() (int64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.EqualValues(t, 11, got)
	assert.Equal(t, Failed, v.State())
}
