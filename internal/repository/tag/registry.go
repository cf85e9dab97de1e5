package tag

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"go-firestore-portfolio/internal/database"
	"go-firestore-portfolio/internal/model"

	"cloud.google.com/go/firestore"
)

func key(name string) string {
	return strings.ToLower(name)
}

// DocId is the registry doc id of a tag. Spellings that differ only in case share a doc.
func DocId(name string) string {
	sum := sha256.Sum256([]byte(key(name)))
	return hex.EncodeToString(sum[:])
}

// Normalize trims tags, drops empty ones and removes case-insensitive duplicates,
// keeping the first spelling.
func Normalize(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[key(t)]; ok {
			continue
		}
		seen[key(t)] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Diff returns the tags of next missing from prev, and the tags of prev missing from next.
// Both inputs are expected to be normalized.
func Diff(prev, next []string) (added, removed []string) {
	inPrev := make(map[string]struct{}, len(prev))
	for _, t := range prev {
		inPrev[key(t)] = struct{}{}
	}
	inNext := make(map[string]struct{}, len(next))
	for _, t := range next {
		inNext[key(t)] = struct{}{}
		if _, ok := inPrev[key(t)]; !ok {
			added = append(added, t)
		}
	}
	for _, t := range prev {
		if _, ok := inNext[key(t)]; !ok {
			removed = append(removed, t)
		}
	}
	return added, removed
}

// CountData is the merge payload that moves the usage count of name by delta.
// The stored spelling is only replaced when the tag gains a product.
func CountData(name string, delta int64, now time.Time) map[string]interface{} {
	data := map[string]interface{}{
		CountFieldPath:     firestore.Increment(delta),
		UpdatedAtFieldPath: now,
	}
	if delta > 0 {
		data[NameFieldPath] = name
	}
	return data
}

// CountRef is the registry doc of name.
func CountRef(db database.Client, name string) *firestore.DocumentRef {
	return db.Collection(tagNode).Doc(DocId(name))
}

// ApplyDiff writes the usage count changes of a product's tags as part of tx.
// It only writes, so it can follow the reads of the transaction.
func ApplyDiff(tx *firestore.Transaction, db database.Client, added, removed []string, now time.Time) error {
	for _, t := range added {
		if err := tx.Set(CountRef(db, t), CountData(t, 1, now), firestore.MergeAll); err != nil {
			return err
		}
	}
	for _, t := range removed {
		if err := tx.Set(CountRef(db, t), CountData(t, -1, now), firestore.MergeAll); err != nil {
			return err
		}
	}
	return nil
}

// Match filters tags by a case-insensitive substring and returns unique names,
// most used first.
func Match(tags []model.Tag, substring string) []string {
	needle := key(strings.TrimSpace(substring))

	candidates := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(key(t.Name), needle) {
			candidates = append(candidates, t)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Count != candidates[j].Count {
			return candidates[i].Count > candidates[j].Count
		}
		return candidates[i].Name < candidates[j].Name
	})

	seen := make(map[string]struct{}, len(candidates))
	names := make([]string, 0, len(candidates))
	for _, t := range candidates {
		if _, ok := seen[key(t.Name)]; ok {
			continue
		}
		seen[key(t.Name)] = struct{}{}
		names = append(names, t.Name)
	}
	return names
}
