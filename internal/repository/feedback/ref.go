package feedback

import (
	"go-firestore-portfolio/internal/database"

	"cloud.google.com/go/firestore"
)

// DocRef points at the feedback doc with id, for transactions spanning collections.
func DocRef(db database.Client, id string) *firestore.DocumentRef {
	return db.Collection(feedbackNode).Doc(id)
}
