package database

import (
	"context"
	"errors"
	"strings"
	"time"

	ierr "go-firestore-portfolio/internal/errors"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

// Firestore rejects batches with more writes than this.
const maxBatchWrites = 500

type snapEvent struct {
	snap *firestore.QuerySnapshot
	err  error
}

type snapCh chan snapEvent

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
}

var _ Client = FirestoreClient{}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout <= 0 {
		writeTimeout = time.Second * 120
	}
	return FirestoreClient{
		Client:       client,
		writeTimeout: writeTimeout,
	}
}

func isCtxErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	// The listener errors are not always wrapped properly, so errors.Is() does not catch them all
	return strings.Contains(err.Error(), "context canceled") || strings.Contains(err.Error(), "context deadline exceeded")
}

// This function listens to the given SnapshotIterator and put all the events on the ChangeEvent channel.
// The cicuite breaker pattern here defines a error rate tolarance cap. If the listener raises error more than
// the given cap, it stops the listener and closes the ChangeEvent channel.
func (c FirestoreClient) NotifyOnChanges(ctx context.Context, it *firestore.QuerySnapshotIterator, kind firestore.DocumentChangeKind) <-chan ChangeEvent {

	ch := make(chan ChangeEvent)
	errToleranceCap := 20
	errCnt := 0

	go func() {
		defer close(ch)

		eventCh := registerEventListener(ctx, it)
		for event := range eventCh {
			if event.err != nil {
				if isCtxErr(event.err) {
					return
				}

				log.Error().Err(event.err).Msg("error reading events")
				errCnt++
				if errCnt < errToleranceCap {
					continue
				}
				select {
				case ch <- ChangeEvent{Err: event.err}:
				case <-ctx.Done():
				}
				return
			}

			for _, change := range event.snap.Changes {
				if change.Kind != kind || change.Doc == nil || !change.Doc.Exists() {
					continue
				}

				select {
				case ch <- ChangeEvent{Change: change}:
				case <-ctx.Done():
					return
				case <-time.After(time.Minute):
					log.Error().Msg("timedout to deliver a change to the client")
				}
			}
		}
	}()

	return ch
}

// registerEventListener keeps the listener open until context is cancelled
func registerEventListener(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan snapEvent {

	threshold := 5
	retry := 0
	c := make(snapCh)
	go func() {
		defer close(c)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err == iterator.Done {
				return
			}

			select {
			case <-ctx.Done():
				return
			case c <- snapEvent{snap, err}:
				continue
			case <-time.After(time.Second * 10):
				log.Error().Msg("timedout to deliver a snapshot to the client")
				retry++
				if retry > threshold {
					return
				}
			}
		}
	}()

	return c
}

// IterDocs calls fn for every doc matched by query. It stops at the first error returned by fn.
func (c FirestoreClient) IterDocs(ctx context.Context, query firestore.Query, fn func(*firestore.DocumentSnapshot) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return ierr.FromStatus(err)
		}

		if err := fn(doc); err != nil {
			return err
		}
	}
}

// GetDoc returns ierr.NotFound when the doc does not exist.
func (c FirestoreClient) GetDoc(ctx context.Context, docRef *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := docRef.Get(ctx)
	if err != nil {
		return nil, ierr.FromStatus(err)
	}

	if !docSnapshot.Exists() {
		return nil, ierr.NotFound
	}

	return docSnapshot, nil
}

// GetDocs reads all docRefs in one round trip. Missing docs are skipped.
func (c FirestoreClient) GetDocs(ctx context.Context, docRefs []*firestore.DocumentRef) ([]*firestore.DocumentSnapshot, error) {
	if len(docRefs) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	snaps, err := c.Client.GetAll(ctx, docRefs)
	if err != nil {
		return nil, ierr.FromStatus(err)
	}

	found := make([]*firestore.DocumentSnapshot, 0, len(snaps))
	for _, snap := range snaps {
		if snap != nil && snap.Exists() {
			found = append(found, snap)
		}
	}
	return found, nil
}

func (c FirestoreClient) SetDoc(ctx context.Context, docRef *firestore.DocumentRef, data interface{}, opts ...firestore.SetOption) (_ *firestore.WriteResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	wr, err := docRef.Set(ctx, data, opts...)
	return wr, ierr.FromStatus(err)
}

// SetDocs writes data in batches of at most maxBatchWrites documents. Batches are
// committed one after another, a failure leaves the earlier batches written.
func (c FirestoreClient) SetDocs(ctx context.Context, data []DataBatch) (_ []*firestore.WriteResult, err error) {
	var wrs []*firestore.WriteResult
	for start := 0; start < len(data); start += maxBatchWrites {
		end := min(start+maxBatchWrites, len(data))

		results, err := c.commit(ctx, data[start:end])
		if err != nil {
			return wrs, err
		}
		wrs = append(wrs, results...)
	}
	return wrs, nil
}

func (c FirestoreClient) commit(ctx context.Context, data []DataBatch) ([]*firestore.WriteResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	batch := c.Client.Batch()
	for _, item := range data {
		batch.Set(item.DocRef, item.Data, item.Opts...)
	}

	wrs, err := batch.Commit(ctx)
	return wrs, ierr.FromStatus(err)
}

// RunTransaction runs fn in a Firestore transaction. The client retries fn on contention,
// so fn must not have side effects outside of the transaction.
func (c FirestoreClient) RunTransaction(ctx context.Context, fn func(context.Context, *firestore.Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	return ierr.FromStatus(c.Client.RunTransaction(ctx, fn))
}
