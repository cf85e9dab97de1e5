package tag

import (
	"testing"
	"time"

	"go-firestore-portfolio/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims and drops empty", []string{" Go ", "", "  "}, []string{"Go"}},
		{"case-insensitive duplicates keep first", []string{"React", "react", "REACT", "Go"}, []string{"React", "Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestDiff(t *testing.T) {
	added, removed := Diff([]string{"React", "TypeScript"}, []string{"react", "Go"})
	assert.Equal(t, []string{"Go"}, added)
	assert.Equal(t, []string{"TypeScript"}, removed)

	added, removed = Diff(nil, []string{"React", "TypeScript"})
	assert.Equal(t, []string{"React", "TypeScript"}, added)
	assert.Empty(t, removed)

	added, removed = Diff([]string{"Go"}, []string{"Go"})
	assert.Empty(t, added)
	assert.Empty(t, removed)
}

func TestDocIdIgnoresCase(t *testing.T) {
	assert.Equal(t, DocId("React"), DocId("react"))
	assert.NotEqual(t, DocId("React"), DocId("Go"))
	assert.Len(t, DocId("React"), 64)
}

func TestMatch(t *testing.T) {
	tags := []model.Tag{
		{Name: "TypeScript", Count: 3},
		{Name: "React", Count: 2},
		{Name: "react", Count: 1},
		{Name: "Go", Count: 5},
		{Name: "Script", Count: 3},
	}

	assert.Equal(t, []string{"React"}, Match(tags, "REA"))
	assert.Equal(t, []string{"Script", "TypeScript"}, Match(tags, "script"))
	assert.Equal(t, []string{"Go", "Script", "TypeScript", "React"}, Match(tags, ""))
	assert.Empty(t, Match(tags, "rust"))
}

func TestCountDataKeepsSpellingOnRelease(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	added := CountData("Go", 1, now)
	assert.Equal(t, "Go", added[NameFieldPath])
	assert.Equal(t, now, added[UpdatedAtFieldPath])

	released := CountData("go", -1, now)
	assert.NotContains(t, released, NameFieldPath)
	assert.Contains(t, released, CountFieldPath)
}
