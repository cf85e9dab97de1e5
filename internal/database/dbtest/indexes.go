package dbtest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go-firestore-portfolio/internal/repository/filter"
	"go-firestore-portfolio/internal/repository/ops"
)

const indexesFile = "firestore.indexes.json"

type indexField struct {
	FieldPath string `json:"fieldPath"`
	Order     string `json:"order"`
}

type index struct {
	CollectionGroup string       `json:"collectionGroup"`
	Fields          []indexField `json:"fields"`
}

// RequireIndexed fails the test unless the deployed index definitions cover a query
// on collection narrowed by where and sorted by order. The emulator accepts any query,
// so this is the only check that a production project can serve it.
func RequireIndexed(t *testing.T, collection string, where []filter.Where, order []filter.Order) {
	t.Helper()

	want := make([]indexField, 0, len(where)+len(order))
	for _, w := range where {
		if w.Op != ops.Equal {
			t.Fatalf("only equality filters are checked, got %q on %s", w.Op, w.Path)
		}
		want = append(want, indexField{FieldPath: w.Path, Order: "ASCENDING"})
	}
	for _, o := range order {
		dir := "ASCENDING"
		if o.Desc {
			dir = "DESCENDING"
		}
		want = append(want, indexField{FieldPath: o.Path, Order: dir})
	}

	// single-field indexes are created automatically
	if len(want) < 2 {
		return
	}

	for _, idx := range loadIndexes(t) {
		if idx.CollectionGroup == collection && sameFields(idx.Fields, want) {
			return
		}
	}
	t.Fatalf("%s has no composite index for %v", collection, want)
}

func sameFields(got, want []indexField) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func loadIndexes(t *testing.T) []index {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		raw, err := os.ReadFile(filepath.Join(dir, indexesFile))
		if err == nil {
			var file struct {
				Indexes []index `json:"indexes"`
			}
			if err := json.Unmarshal(raw, &file); err != nil {
				t.Fatalf("decode %s: %v", indexesFile, err)
			}
			return file.Indexes
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("%s not found above the test directory", indexesFile)
		}
		dir = parent
	}
}
