// Package mongo implements the request persistence gateway on top of a
// MongoDB collection. The collection carries a $jsonSchema validator so
// writes that bypass the application layer are still rejected server-side.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"

	"crisiscorner/internal/request"
	"crisiscorner/pkg/platform/sentinel"
)

const collectionName = "requests"

// namespaceExists is the server error name for a collection that already
// exists; a concurrent creator winning the race is success, not failure.
const namespaceExists = "NamespaceExists"

// schema mirrors the application-side validation bounds.
func schema() bson.M {
	statuses := bson.A{}
	for _, s := range request.Statuses() {
		statuses = append(statuses, string(s))
	}
	return bson.M{
		"bsonType":             "object",
		"required":             bson.A{"requestorName", "itemRequested", "requestCreatedDate", "status"},
		"additionalProperties": false,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"requestorName": bson.M{
				"bsonType":  "string",
				"minLength": request.RequestorNameMin,
				"maxLength": request.RequestorNameMax,
			},
			"itemRequested": bson.M{
				"bsonType":  "string",
				"minLength": request.ItemRequestedMin,
				"maxLength": request.ItemRequestedMax,
			},
			"requestCreatedDate": bson.M{"bsonType": "date"},
			"lastEditedDate":     bson.M{"bsonType": bson.A{"date", "null"}},
			"status":             bson.M{"bsonType": "string", "enum": statuses},
		},
	}
}

type document struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	RequestorName      string             `bson:"requestorName"`
	ItemRequested      string             `bson:"itemRequested"`
	RequestCreatedDate time.Time          `bson:"requestCreatedDate"`
	LastEditedDate     *time.Time         `bson:"lastEditedDate"`
	Status             request.Status     `bson:"status"`
}

// Store persists item requests in a MongoDB collection. The collection and
// its schema validator are created lazily on first use; success is memoized
// for the process lifetime and failures are retried on the next call.
type Store struct {
	db    *driver.Database
	group singleflight.Group

	mu    sync.Mutex
	ready bool
}

// New constructs a MongoDB-backed request store.
func New(db *driver.Database) *Store {
	return &Store{db: db}
}

// Connect dials MongoDB and verifies the connection before returning.
func Connect(ctx context.Context, uri string) (*driver.Client, error) {
	client, err := driver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, nil
}

// ensureCollection creates the requests collection with its validator on
// first use. Concurrent first callers share a single attempt.
func (s *Store) ensureCollection(ctx context.Context) error {
	s.mu.Lock()
	ready := s.ready
	s.mu.Unlock()
	if ready {
		return nil
	}

	_, err, _ := s.group.Do("ensure", func() (any, error) {
		opts := options.CreateCollection().
			SetValidator(bson.M{"$jsonSchema": schema()}).
			SetValidationLevel("strict").
			SetValidationAction("error")
		if err := s.db.CreateCollection(ctx, collectionName, opts); err != nil {
			var cmdErr driver.CommandError
			if !errors.As(err, &cmdErr) || cmdErr.Name != namespaceExists {
				return nil, fmt.Errorf("create %s collection: %w", collectionName, err)
			}
		}
		s.mu.Lock()
		s.ready = true
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

func (s *Store) collection(ctx context.Context) (*driver.Collection, error) {
	if err := s.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return s.db.Collection(collectionName), nil
}

func (s *Store) Find(ctx context.Context, status *request.Status, skip, limit int64) ([]request.ItemRequest, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{}
	if status != nil {
		filter["status"] = *status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "requestCreatedDate", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find requests: %w", err)
	}
	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode requests: %w", err)
	}

	out := make([]request.ItemRequest, 0, len(docs))
	for _, d := range docs {
		out = append(out, toItemRequest(d))
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, req request.ItemRequest) (request.ItemRequest, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return request.ItemRequest{}, err
	}

	doc := document{
		RequestorName:      req.RequestorName,
		ItemRequested:      req.ItemRequested,
		RequestCreatedDate: req.RequestCreatedDate,
		LastEditedDate:     req.LastEditedDate,
		Status:             req.Status,
	}
	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		return request.ItemRequest{}, fmt.Errorf("insert request: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return toItemRequest(doc), nil
}

func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status request.Status, editedAt time.Time) (*request.ItemRequest, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"status": status, "lastEditedDate": editedAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&doc)
	if errors.Is(err, driver.ErrNoDocuments) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update request status: %w", err)
	}
	rec := toItemRequest(doc)
	return &rec, nil
}

func (s *Store) UpdateStatusBatch(ctx context.Context, ids []primitive.ObjectID, status request.Status, editedAt time.Time) (request.BatchResult, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return request.BatchResult{}, err
	}

	// Pipeline update: documents already at the target status are left
	// byte-identical, so modifiedCount only counts real changes and
	// lastEditedDate only moves on a real change.
	update := driver.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			"status": status,
			"lastEditedDate": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$status", status}},
				"$lastEditedDate",
				editedAt,
			}},
		}}},
	}
	res, err := coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, update)
	if err != nil {
		return request.BatchResult{}, fmt.Errorf("batch update request status: %w", err)
	}
	return request.BatchResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (s *Store) DeleteBatch(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("batch delete requests: %w", err)
	}
	return res.DeletedCount, nil
}

func toItemRequest(d document) request.ItemRequest {
	return request.ItemRequest{
		ID:                 d.ID.Hex(),
		RequestorName:      d.RequestorName,
		ItemRequested:      d.ItemRequested,
		RequestCreatedDate: d.RequestCreatedDate,
		LastEditedDate:     d.LastEditedDate,
		Status:             d.Status,
	}
}
