// Package dbtest connects tests to the Firestore emulator.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go-firestore-portfolio/internal/database"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const projectId = "portfolio-test"

// New returns a client bound to the emulator at FIRESTORE_EMULATOR_HOST, or skips the test.
// The given collections are emptied before and after the test.
func New(t *testing.T, collections ...string) database.FirestoreClient {
	t.Helper()

	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, projectId)
	if err != nil {
		t.Fatalf("create firestore client: %v", err)
	}

	purge := func() {
		for _, coll := range collections {
			if err := purgeCollection(ctx, client, coll); err != nil {
				t.Fatalf("clear %s: %v", coll, err)
			}
		}
	}

	purge()
	t.Cleanup(func() {
		purge()
		client.Close()
	})

	return database.New(client, 10*time.Second)
}

func purgeCollection(ctx context.Context, client *firestore.Client, coll string) error {
	iter := client.Collection(coll).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("iterate: %w", err)
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return err
		}
	}
}
