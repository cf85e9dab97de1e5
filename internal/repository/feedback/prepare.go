package feedback

import (
	"time"

	"go-firestore-portfolio/internal/model"
)

// Prepare stamps a feedback that is about to be inserted.
func Prepare(data model.Feedback, now time.Time) model.Feedback {
	data.PostDate = now.UTC().Truncate(time.Microsecond)
	data.SumLike = 0
	return data
}
