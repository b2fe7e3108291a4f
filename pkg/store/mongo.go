package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/nodemap/pkg/io"
)

// Default MongoDB names.
const (
	DefaultMongoDatabase   = "nodemap"
	DefaultMongoCollection = "diagrams"
)

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string
	Database   string // default "nodemap"
	Collection string // default "diagrams"
}

// MongoStore stores records in a MongoDB collection.
//
// Definitions are stored as their JSON encoding rather than as nested BSON so
// that attribute values decode back into the same Go types the file loaders
// produce.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDocument struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name,omitempty"`
	Definition string    `bson:"definition"`
	CreatedAt  time.Time `bson:"created_at"`
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures the
// created_at index used by List.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Save(ctx context.Context, def *io.Definition) (*Record, error) {
	rec, err := NewRecord(def)
	if err != nil {
		return nil, err
	}
	doc, err := toDocument(rec)
	if err != nil {
		return nil, err
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert diagram: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	var doc mongoDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("find diagram: %w", err)
	}
	return fromDocument(doc)
}

func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	var docs []mongoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode diagrams: %w", err)
	}

	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		rec, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete diagram: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocument(rec *Record) (mongoDocument, error) {
	data, err := io.MarshalJSON(rec.Definition)
	if err != nil {
		return mongoDocument{}, err
	}
	return mongoDocument{
		ID:         rec.ID,
		Name:       rec.Name,
		Definition: string(data),
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func fromDocument(doc mongoDocument) (*Record, error) {
	def, err := io.ReadJSON(strings.NewReader(doc.Definition))
	if err != nil {
		return nil, fmt.Errorf("stored diagram %s: %w", doc.ID, err)
	}
	return &Record{
		ID:         doc.ID,
		Name:       doc.Name,
		Definition: def,
		CreatedAt:  doc.CreatedAt,
	}, nil
}

var _ Store = (*MongoStore)(nil)
