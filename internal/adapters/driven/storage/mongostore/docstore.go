// Package mongostore provides a MongoDB implementation of driven.DocumentStore.
//
// Records live in one collection; IDs are ObjectID hex strings.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

const connectTimeout = 10 * time.Second

// Config configures the MongoDB document store.
type Config struct {
	// URI is the connection string, e.g. mongodb://localhost:27017.
	URI string

	// Database defaults to "ragdesk".
	Database string

	// Collection defaults to "documents".
	Collection string
}

// DocumentStore persists document records in MongoDB.
type DocumentStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// document is the BSON shape of a record.
type document struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	OrganizationID    string             `bson:"organization_id"`
	DisplayName       string             `bson:"display_name"`
	OriginalFilename  string             `bson:"original_filename"`
	UniqueStorageName string             `bson:"unique_storage_name"`
	StoragePath       string             `bson:"storage_path"`
	FileSizeBytes     int64              `bson:"file_size_bytes"`
	UploadedAt        time.Time          `bson:"uploaded_at"`
	Status            string             `bson:"status"`
}

// New connects to MongoDB and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*DocumentStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("%w: mongo uri is required", domain.ErrInvalidInput)
	}
	if cfg.Database == "" {
		cfg.Database = "ragdesk"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to mongo: %v", domain.ErrExternalDependency, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: pinging mongo: %v", domain.ErrExternalDependency, err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organization_id", Value: 1}}},
		{Keys: bson.D{{Key: "unique_storage_name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: creating indexes: %v", domain.ErrExternalDependency, err)
	}

	return &DocumentStore{client: client, coll: coll}, nil
}

// Close disconnects the client.
func (s *DocumentStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// InsertMany stores the records and returns their ObjectID hex strings.
func (s *DocumentStore) InsertMany(ctx context.Context, docs []domain.DocumentRecord) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(docs))
	batch := make([]any, len(docs))
	for i, rec := range docs {
		d := fromRecord(rec)
		d.ID = primitive.NewObjectID()
		ids[i] = d.ID.Hex()
		batch[i] = d
	}

	if _, err := s.coll.InsertMany(ctx, batch); err != nil {
		return nil, fmt.Errorf("inserting documents: %w", err)
	}
	return ids, nil
}

// Find returns matching records ordered by upload time.
func (s *DocumentStore) Find(ctx context.Context, filter domain.DocumentFilter) ([]domain.DocumentRecord, error) {
	query, err := buildFilter(filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("finding documents: %w", err)
	}
	defer cursor.Close(ctx)

	var found []document
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}

	out := make([]domain.DocumentRecord, 0, len(found))
	for _, d := range found {
		out = append(out, d.toRecord())
	}
	return out, nil
}

// Get retrieves one record by ID.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.DocumentRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var d document
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	rec := d.toRecord()
	return &rec, nil
}

// DeleteMany removes matching records.
func (s *DocumentStore) DeleteMany(ctx context.Context, filter domain.DocumentFilter) (int, error) {
	query, err := buildFilter(filter)
	if err != nil {
		return 0, err
	}

	res, err := s.coll.DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("deleting documents: %w", err)
	}
	return int(res.DeletedCount), nil
}

// UpdateStatus sets the status of the given records.
func (s *DocumentStore) UpdateStatus(ctx context.Context, ids []string, status domain.DocumentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: status %q", domain.ErrInvalidInput, status)
	}
	if len(ids) == 0 {
		return nil
	}

	_, err := s.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": objectIDs(ids)}},
		bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}

// ValidID reports whether id is a 24 character ObjectID hex string.
func (s *DocumentStore) ValidID(id string) bool {
	return validObjectID(id)
}

func validObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

// buildFilter translates a DocumentFilter into a BSON query.
// Malformed IDs cannot match any record and are dropped.
func buildFilter(filter domain.DocumentFilter) (bson.M, error) {
	if filter.IsEmpty() {
		return nil, fmt.Errorf("%w: empty document filter", domain.ErrInvalidInput)
	}

	query := bson.M{}
	if filter.OrganizationID != "" {
		query["organization_id"] = filter.OrganizationID
	}
	if len(filter.IDs) > 0 {
		query["_id"] = bson.M{"$in": objectIDs(filter.IDs)}
	}
	if len(filter.StorageNames) > 0 {
		query["unique_storage_name"] = bson.M{"$in": filter.StorageNames}
	}
	return query, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func fromRecord(rec domain.DocumentRecord) document {
	status := rec.Status
	if status == "" {
		status = domain.StatusUploaded
	}
	return document{
		OrganizationID:    rec.OrganizationID,
		DisplayName:       rec.DisplayName,
		OriginalFilename:  rec.OriginalFilename,
		UniqueStorageName: rec.UniqueStorageName,
		StoragePath:       rec.StoragePath,
		FileSizeBytes:     rec.FileSizeBytes,
		UploadedAt:        rec.UploadedAt.UTC(),
		Status:            string(status),
	}
}

func (d document) toRecord() domain.DocumentRecord {
	return domain.DocumentRecord{
		ID:                d.ID.Hex(),
		OrganizationID:    d.OrganizationID,
		DisplayName:       d.DisplayName,
		OriginalFilename:  d.OriginalFilename,
		UniqueStorageName: d.UniqueStorageName,
		StoragePath:       d.StoragePath,
		FileSizeBytes:     d.FileSizeBytes,
		UploadedAt:        d.UploadedAt.UTC(),
		Status:            domain.DocumentStatus(d.Status),
	}
}
