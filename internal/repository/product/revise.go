package product

import (
	"time"

	"go-firestore-portfolio/internal/model"
	"go-firestore-portfolio/internal/repository/tag"
)

// Firestore keeps timestamps with microsecond precision.
const timePrecision = time.Microsecond

// Prepare stamps a product that is about to be inserted.
func Prepare(data model.Product, now time.Time) model.Product {
	now = now.UTC().Truncate(timePrecision)
	data.Tags = tag.Normalize(data.Tags)
	data.SumLike = 0
	data.PostDate = now
	data.EditDate = now
	return data
}

// Revise merges an edit into prev. Identity, author and postDate come from prev,
// editDate is strictly after prev.EditDate and sumLike is reset to 0.
func Revise(prev, next model.Product, now time.Time) model.Product {
	now = now.UTC().Truncate(timePrecision)
	if !now.After(prev.EditDate) {
		now = prev.EditDate.Add(timePrecision)
	}

	next.Id = prev.Id
	next.UserUid = prev.UserUid
	next.PostDate = prev.PostDate
	next.EditDate = now
	next.Tags = tag.Normalize(next.Tags)
	// FIXME: an edit drops every like while the likers keep the id in giveLike
	next.SumLike = 0
	return next
}
