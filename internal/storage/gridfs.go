package storage

import (
	"context"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DocumentStore keeps uploaded evidence files in a MongoDB GridFS
// bucket. Each stored file gets an opaque key (the GridFS ObjectID hex)
// and a URL under /v1/documents/ served back by this process.
type DocumentStore struct {
	db *mongo.Database
}

// StoredFile describes one persisted upload.
type StoredFile struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Connect dials MongoDB and returns a store over the named database.
func Connect(ctx context.Context, uri, dbName string) (*DocumentStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, err
	}
	return &DocumentStore{db: client.Database(dbName)}, nil
}

// NewDocumentStore wraps an existing database handle. Used by tests.
func NewDocumentStore(db *mongo.Database) *DocumentStore { return &DocumentStore{db: db} }

// Store writes one file into the bucket and returns its key and URL.
// The content type travels as bucket metadata so Open can replay it.
func (s *DocumentStore) Store(r io.Reader, filename, contentType string) (*StoredFile, error) {
	bucket, err := gridfs.NewBucket(s.db)
	if err != nil {
		return nil, err
	}
	opts := options.GridFSUpload().SetMetadata(map[string]any{"contentType": contentType})
	stream, err := bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(stream, r)
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	if err := stream.Close(); err != nil {
		return nil, err
	}
	key := stream.FileID.(primitive.ObjectID).Hex()
	return &StoredFile{
		Key:         key,
		URL:         "/v1/documents/" + key,
		ContentType: contentType,
		Size:        size,
	}, nil
}

// Open returns the file bytes, original name and content type for a key.
func (s *DocumentStore) Open(key string) ([]byte, string, string, error) {
	bucket, err := gridfs.NewBucket(s.db)
	if err != nil {
		return nil, "", "", err
	}
	objID, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return nil, "", "", err
	}
	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		return nil, "", "", err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", "", err
	}
	file := stream.GetFile()
	name := file.Name
	contentType := "application/octet-stream"
	if file.Metadata != nil {
		var meta struct {
			ContentType string `bson:"contentType"`
		}
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return data, name, contentType, nil
}

// Delete removes a stored file by key. Unknown keys are not an error so
// cleanup after a failed submission can run unconditionally.
func (s *DocumentStore) Delete(key string) error {
	bucket, err := gridfs.NewBucket(s.db)
	if err != nil {
		return err
	}
	objID, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return err
	}
	if err := bucket.Delete(objID); err != nil && err != gridfs.ErrFileNotFound {
		return err
	}
	return nil
}
