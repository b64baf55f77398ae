package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crisiscorner/internal/request"
	"crisiscorner/internal/request/service"
	"crisiscorner/internal/request/store/memory"
	"crisiscorner/pkg/testutil"
)

// HandlerSuite runs the routes against a real service over an in-memory
// store; no mocks.
type HandlerSuite struct {
	suite.Suite
	router http.Handler
}

func (s *HandlerSuite) SetupTest() {
	store := memory.New()
	svc, err := service.New(store, 10)
	require.NoError(s.T(), err)

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(svc, logger)

	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) create(name, item string) request.ItemRequest {
	s.T().Helper()
	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/requests", map[string]string{
		"requestorName": name,
		"itemRequested": item,
	})
	rec := testutil.DoRequest(s.router, req)
	require.Equal(s.T(), http.StatusCreated, rec.Code, "create failed: %s", rec.Body.String())
	return *testutil.UnmarshalResponse[request.ItemRequest](s.T(), rec)
}

func (s *HandlerSuite) TestCreate() {
	created := s.create("Jane Doe", "blankets")

	s.Equal("Jane Doe", created.RequestorName)
	s.Equal("blankets", created.ItemRequested)
	s.Equal(request.StatusPending, created.Status)
	s.NotEmpty(created.ID)
	s.Require().NotNil(created.LastEditedDate)
	s.True(created.LastEditedDate.Equal(created.RequestCreatedDate))
}

func (s *HandlerSuite) TestCreateInvalidJSON() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPut, "/requests", "not valid json")
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	testutil.AssertMessage(s.T(), rec, "Invalid input.")
}

func (s *HandlerSuite) TestCreateInvalidPayload() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPut, "/requests", map[string]string{
		"requestorName": "ab", // too short
		"itemRequested": "blankets",
	})
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	testutil.AssertMessage(s.T(), rec, "Invalid input.")
}

func (s *HandlerSuite) TestListEmpty() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/requests", nil)
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rec.Code)
	// Empty list is a JSON array, never null.
	s.JSONEq("[]", rec.Body.String())
}

func (s *HandlerSuite) TestListWithStatusFilter() {
	created := s.create("Jane Doe", "blankets")
	s.create("John Doe", "water")

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/requests", map[string]string{
		"id":     created.ID,
		"status": "approved",
	})
	rec := testutil.DoRequest(s.router, req)
	s.Require().Equal(http.StatusOK, rec.Code)

	listReq := testutil.NewJSONRequest(s.T(), http.MethodGet, "/requests?status=Approved", nil)
	listRec := testutil.DoRequest(s.router, listReq)
	s.Equal(http.StatusOK, listRec.Code)

	listed := *testutil.UnmarshalResponse[[]request.ItemRequest](s.T(), listRec)
	s.Require().Len(listed, 1)
	s.Equal(created.ID, listed[0].ID)
	s.Equal(request.StatusApproved, listed[0].Status)
}

func (s *HandlerSuite) TestListInvalidPage() {
	for _, query := range []string{"?page=0", "?page=-1", "?page=abc"} {
		req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/requests"+query, nil)
		rec := testutil.DoRequest(s.router, req)
		s.Equal(http.StatusBadRequest, rec.Code, "query=%s", query)
		testutil.AssertMessage(s.T(), rec, "Invalid input.")
	}
}

func (s *HandlerSuite) TestListUnknownStatus() {
	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/requests?status=shipped", nil)
	rec := testutil.DoRequest(s.router, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestEditStatusNotFound() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/requests", map[string]string{
		"id":     primitive.NewObjectID().Hex(),
		"status": "approved",
	})
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusNotFound, rec.Code)
	testutil.AssertMessage(s.T(), rec, "Request not found.")
}

func (s *HandlerSuite) TestEditStatusMalformedID() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/requests", map[string]string{
		"id":     "bogus",
		"status": "approved",
	})
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rec.Code)
	testutil.AssertMessage(s.T(), rec, "Invalid input.")
}

func (s *HandlerSuite) TestEditStatusBatch() {
	a := s.create("Jane Doe", "blankets")
	b := s.create("John Doe", "water")

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/requests/batch", map[string]any{
		"ids":    []string{a.ID, b.ID},
		"status": "completed",
	})
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rec.Code)
	result := testutil.UnmarshalResponse[request.BatchResult](s.T(), rec)
	s.Equal(int64(2), result.MatchedCount)
	s.Equal(int64(2), result.ModifiedCount)
}

func (s *HandlerSuite) TestEditStatusBatchRejectsBadID() {
	a := s.create("Jane Doe", "blankets")

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/requests/batch", map[string]any{
		"ids":    []string{a.ID, ""},
		"status": "completed",
	})
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusBadRequest, rec.Code)

	// The valid record is untouched.
	listReq := testutil.NewJSONRequest(s.T(), http.MethodGet, "/requests?status=pending", nil)
	listRec := testutil.DoRequest(s.router, listReq)
	listed := *testutil.UnmarshalResponse[[]request.ItemRequest](s.T(), listRec)
	s.Require().Len(listed, 1)
	s.Equal(a.ID, listed[0].ID)
}

func (s *HandlerSuite) TestDeleteBatch() {
	a := s.create("Jane Doe", "blankets")
	s.create("John Doe", "water")

	req := testutil.NewJSONRequest(s.T(), http.MethodDelete, "/requests/batch", map[string]any{
		"ids": []string{a.ID, primitive.NewObjectID().Hex()},
	})
	rec := testutil.DoRequest(s.router, req)

	s.Equal(http.StatusOK, rec.Code)
	result := testutil.UnmarshalResponse[map[string]int64](s.T(), rec)
	s.Equal(int64(1), (*result)["deletedCount"])

	listReq := testutil.NewJSONRequest(s.T(), http.MethodGet, "/requests", nil)
	listRec := testutil.DoRequest(s.router, listReq)
	listed := *testutil.UnmarshalResponse[[]request.ItemRequest](s.T(), listRec)
	s.Require().Len(listed, 1)
	s.Equal("John Doe", listed[0].RequestorName)
}

func TestRoundTripThroughRouter(t *testing.T) {
	store := memory.New()
	svc, err := service.New(store, 10)
	require.NoError(t, err)
	h := New(svc, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	r := chi.NewRouter()
	h.Register(r)

	// Create with untrimmed fields, then read back through the list filter.
	createReq := testutil.NewJSONRequest(t, http.MethodPut, "/requests", map[string]string{
		"requestorName": "  Jane Doe ",
		"itemRequested": " camping stove  ",
	})
	createRec := testutil.DoRequest(r, createReq)
	require.Equal(t, http.StatusCreated, createRec.Code)
	created := testutil.UnmarshalResponse[request.ItemRequest](t, createRec)

	listReq := testutil.NewJSONRequest(t, http.MethodGet, "/requests?status=pending&page=1", nil)
	listRec := testutil.DoRequest(r, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)
	listed := *testutil.UnmarshalResponse[[]request.ItemRequest](t, listRec)
	require.Len(t, listed, 1)

	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, "Jane Doe", listed[0].RequestorName)
	assert.Equal(t, "camping stove", listed[0].ItemRequested)

	id, ok := request.ParseID(listed[0].ID)
	require.True(t, ok)
	assert.Equal(t, listed[0].ID, id.Hex())
}
