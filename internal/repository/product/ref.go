package product

import (
	"go-firestore-portfolio/internal/database"

	"cloud.google.com/go/firestore"
)

// DocRef points at the product doc with id, for transactions spanning collections.
func DocRef(db database.Client, id string) *firestore.DocumentRef {
	return db.Collection(productNode).Doc(id)
}

// NewDocRef reserves a new product id.
func NewDocRef(db database.Client) *firestore.DocumentRef {
	return db.Collection(productNode).NewDoc()
}
