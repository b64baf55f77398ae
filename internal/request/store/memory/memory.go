// Package memory provides an in-memory request.Store used by service and
// handler tests. It mirrors the Mongo store's observable semantics: ObjectID
// generation, newest-first ordering, skip/limit, matched-versus-modified
// counting, and sentinel.ErrNotFound.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crisiscorner/internal/request"
	"crisiscorner/pkg/platform/sentinel"
)

type document struct {
	id      primitive.ObjectID
	name    string
	item    string
	created time.Time
	edited  *time.Time
	status  request.Status
}

// Store keeps request documents in process memory.
type Store struct {
	mu   sync.RWMutex
	docs []*document
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

func (s *Store) Find(_ context.Context, status *request.Status, skip, limit int64) ([]request.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*document, 0, len(s.docs))
	for _, d := range s.docs {
		if status == nil || d.status == *status {
			matched = append(matched, d)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].created.After(matched[j].created)
	})

	if skip >= int64(len(matched)) {
		return []request.ItemRequest{}, nil
	}
	matched = matched[skip:]
	if limit < int64(len(matched)) {
		matched = matched[:limit]
	}

	out := make([]request.ItemRequest, 0, len(matched))
	for _, d := range matched {
		out = append(out, toItemRequest(d))
	}
	return out, nil
}

func (s *Store) Insert(_ context.Context, req request.ItemRequest) (request.ItemRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &document{
		id:      primitive.NewObjectID(),
		name:    req.RequestorName,
		item:    req.ItemRequested,
		created: req.RequestCreatedDate,
		status:  req.Status,
	}
	if req.LastEditedDate != nil {
		edited := *req.LastEditedDate
		d.edited = &edited
	}
	s.docs = append(s.docs, d)
	return toItemRequest(d), nil
}

func (s *Store) UpdateStatus(_ context.Context, id primitive.ObjectID, status request.Status, editedAt time.Time) (*request.ItemRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.docs {
		if d.id == id {
			d.status = status
			edited := editedAt
			d.edited = &edited
			rec := toItemRequest(d)
			return &rec, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) UpdateStatusBatch(_ context.Context, ids []primitive.ObjectID, status request.Status, editedAt time.Time) (request.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var result request.BatchResult
	for _, d := range s.docs {
		if _, ok := wanted[d.id]; !ok {
			continue
		}
		result.MatchedCount++
		// Documents already at the target status are left untouched, so
		// lastEditedDate only moves on a real change.
		if d.status != status {
			d.status = status
			edited := editedAt
			d.edited = &edited
			result.ModifiedCount++
		}
	}
	return result, nil
}

func (s *Store) DeleteBatch(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var deleted int64
	kept := s.docs[:0]
	for _, d := range s.docs {
		if _, ok := wanted[d.id]; ok {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	s.docs = kept
	return deleted, nil
}

func toItemRequest(d *document) request.ItemRequest {
	rec := request.ItemRequest{
		ID:                 d.id.Hex(),
		RequestorName:      d.name,
		ItemRequested:      d.item,
		RequestCreatedDate: d.created,
		Status:             d.status,
	}
	if d.edited != nil {
		edited := *d.edited
		rec.LastEditedDate = &edited
	}
	return rec
}
