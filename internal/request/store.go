package request

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BatchResult reports the outcome of a bulk status update. MatchedCount
// counts every document hit by the id filter; ModifiedCount only those whose
// status actually changed.
type BatchResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// Store is the persistence gateway for item requests. Identifiers cross this
// boundary in their native form; the service layer owns the string mapping.
// Find results are ordered by creation time, newest first.
type Store interface {
	Find(ctx context.Context, status *Status, skip, limit int64) ([]ItemRequest, error)
	Insert(ctx context.Context, req ItemRequest) (ItemRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status Status, editedAt time.Time) (*ItemRequest, error)
	UpdateStatusBatch(ctx context.Context, ids []primitive.ObjectID, status Status, editedAt time.Time) (BatchResult, error)
	DeleteBatch(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}
