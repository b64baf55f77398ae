// Package service orchestrates validation and persistence for each item
// request use case. Every operation validates first, so invalid input never
// reaches the store, then performs exactly one storage call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crisiscorner/internal/request"
	"crisiscorner/internal/request/metrics"
	dErrors "crisiscorner/pkg/domain-errors"
	"crisiscorner/pkg/platform/sentinel"
)

// Service exposes the item request use cases.
type Service struct {
	store    request.Store
	pageSize int64
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service. pageSize is the fixed page size shared by all
// listing calls.
func New(store request.Store, pageSize int, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("request store is required")
	}
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}

	s := &Service{
		store:    store,
		pageSize: int64(pageSize),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List returns one page of requests, newest first. A nil status means
// unfiltered; a status string that does not normalize is invalid input.
func (s *Service) List(ctx context.Context, status *string, page int) ([]request.ItemRequest, error) {
	if page < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("page must be a positive integer, got %d", page))
	}

	var filter *request.Status
	if status != nil {
		normalized, ok := request.NormalizeStatus(*status)
		if !ok {
			return nil, dErrors.New(dErrors.CodeBadRequest, "unknown status filter")
		}
		filter = &normalized
	}

	start := time.Now()
	skip := int64(page-1) * s.pageSize
	items, err := s.store.Find(ctx, filter, skip, s.pageSize)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list requests")
	}
	if s.metrics != nil {
		s.metrics.ObserveList(start)
	}
	return items, nil
}

// Create validates the payload and inserts a new request. Status is always
// forced to pending; creation and last-edited times are set to the same
// instant.
func (s *Service) Create(ctx context.Context, payload any) (request.ItemRequest, error) {
	input, ok := request.ParseCreate(payload)
	if !ok {
		return request.ItemRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid create request payload")
	}

	now := s.now()
	created, err := s.store.Insert(ctx, request.ItemRequest{
		RequestorName:      input.RequestorName,
		ItemRequested:      input.ItemRequested,
		RequestCreatedDate: now,
		LastEditedDate:     &now,
		Status:             request.StatusPending,
	})
	if err != nil {
		return request.ItemRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create request")
	}

	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	s.logger.InfoContext(ctx, "request created",
		"id", created.ID,
		"requestor", created.RequestorName,
	)
	return created, nil
}

// EditStatus updates the status of a single request and returns the
// post-update record. A missing record is CodeNotFound, a distinct outcome
// from infrastructure failure.
func (s *Service) EditStatus(ctx context.Context, payload any) (request.ItemRequest, error) {
	input, ok := request.ParseEditStatus(payload)
	if !ok {
		return request.ItemRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid edit status payload")
	}
	id, ok := request.ParseID(input.ID)
	if !ok {
		return request.ItemRequest{}, dErrors.New(dErrors.CodeBadRequest, "malformed request id")
	}

	updated, err := s.store.UpdateStatus(ctx, id, input.Status, s.now())
	if errors.Is(err, sentinel.ErrNotFound) {
		return request.ItemRequest{}, dErrors.New(dErrors.CodeNotFound, "request not found")
	}
	if err != nil {
		return request.ItemRequest{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to edit request status")
	}

	if s.metrics != nil {
		s.metrics.AddStatusEdits(1)
	}
	s.logger.InfoContext(ctx, "request status edited",
		"id", updated.ID,
		"status", updated.Status,
	)
	return *updated, nil
}

// EditStatusBatch applies one status to every listed id. Validation is
// all-or-nothing: a single malformed id aborts the batch before any storage
// call.
func (s *Service) EditStatusBatch(ctx context.Context, payload any) (request.BatchResult, error) {
	input, ok := request.ParseBatchStatusUpdate(payload)
	if !ok {
		return request.BatchResult{}, dErrors.New(dErrors.CodeBadRequest, "invalid batch edit payload")
	}
	ids, ok := parseIDs(input.IDs)
	if !ok {
		return request.BatchResult{}, dErrors.New(dErrors.CodeBadRequest, "malformed request id in batch")
	}

	result, err := s.store.UpdateStatusBatch(ctx, ids, input.Status, s.now())
	if err != nil {
		return request.BatchResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to batch edit request status")
	}

	if s.metrics != nil {
		s.metrics.AddStatusEdits(result.ModifiedCount)
	}
	s.logger.InfoContext(ctx, "request statuses batch edited",
		"status", input.Status,
		"matched", result.MatchedCount,
		"modified", result.ModifiedCount,
	)
	return result, nil
}

// DeleteBatch deletes every listed id and reports how many records went
// away. Same all-or-nothing validation rule as EditStatusBatch.
func (s *Service) DeleteBatch(ctx context.Context, payload any) (int64, error) {
	input, ok := request.ParseBatchDelete(payload)
	if !ok {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid batch delete payload")
	}
	ids, ok := parseIDs(input.IDs)
	if !ok {
		return 0, dErrors.New(dErrors.CodeBadRequest, "malformed request id in batch")
	}

	deleted, err := s.store.DeleteBatch(ctx, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to batch delete requests")
	}

	if s.metrics != nil {
		s.metrics.AddDeleted(deleted)
	}
	s.logger.InfoContext(ctx, "requests batch deleted", "deleted", deleted)
	return deleted, nil
}

func parseIDs(raw []string) ([]primitive.ObjectID, bool) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		id, ok := request.ParseID(r)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
