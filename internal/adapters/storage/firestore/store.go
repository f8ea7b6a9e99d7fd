package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "kv"

type Store struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

// NewStore creates a Firestore-backed key-value store.
// Uses the project passed (ORACLE_GCP_PROJECT).
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{
		client:     client,
		collection: defaultCollection,
		now:        time.Now,
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) recordDoc(key string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(key)
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type recordDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// ─────────────────────────────────────────
// KVStore implementation
// ─────────────────────────────────────────

func (s *Store) Get(key string) (string, bool, error) {
	ctx := context.Background()

	snap, err := s.recordDoc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("firestore Get: %w", err)
	}

	var doc recordDoc
	if err := snap.DataTo(&doc); err != nil {
		return "", false, fmt.Errorf("firestore Get decode: %w", err)
	}

	return doc.Value, true, nil
}

func (s *Store) Set(key, value string) error {
	ctx := context.Background()

	doc := recordDoc{
		Value:     value,
		UpdatedAt: s.now(),
	}

	if _, err := s.recordDoc(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore Set: %w", err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	ctx := context.Background()

	// Delete on a missing document succeeds
	if _, err := s.recordDoc(key).Delete(ctx); err != nil {
		return fmt.Errorf("firestore Remove: %w", err)
	}
	return nil
}
