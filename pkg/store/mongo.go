package store

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DrDeath22/packdex/pkg/recipe"
)

const (
	// DefaultDatabase is the MongoDB database used when none is configured.
	DefaultDatabase = "packdex"
	// recordCollection is the collection holding one document per record.
	recordCollection = "records"
)

// Mongo is a Store backed by a MongoDB collection. A unique compound index
// on (name, version) enforces the duplicate-record invariant at the
// database level, so concurrent writers cannot race past it.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoRecord is the document layout for stored records. Requirements are
// flattened to (name, constraint) pairs; the parsed constraint is rebuilt
// on demand by recipe.Requirement.
type mongoRecord struct {
	Name         string             `bson:"name"`
	Version      string             `bson:"version"`
	Description  string             `bson:"description,omitempty"`
	License      string             `bson:"license,omitempty"`
	URL          string             `bson:"url,omitempty"`
	Topics       []string           `bson:"topics,omitempty"`
	Requirements []mongoRequirement `bson:"requirements,omitempty"`
	Libs         []string           `bson:"libs,omitempty"`
}

type mongoRequirement struct {
	Name       string `bson:"name"`
	Constraint string `bson:"constraint"`
}

// NewMongo connects to the MongoDB instance at uri and returns a store
// over the given database (DefaultDatabase if empty). It creates the
// unique (name, version) index before returning.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	coll := client.Database(database).Collection(recordCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create record index: %w", err)
	}

	return &Mongo{client: client, coll: coll}, nil
}

// Put stores a record. The unique index maps duplicate-key failures to
// ErrDuplicateRecord.
func (m *Mongo) Put(ctx context.Context, rec *recipe.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if _, err := m.coll.InsertOne(ctx, toDoc(rec)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", rec.Ref(), ErrDuplicateRecord)
		}
		return fmt.Errorf("insert %s: %w", rec.Ref(), err)
	}
	return nil
}

// Get returns the record for (name, version), or ErrNotFound.
func (m *Mongo) Get(ctx context.Context, name, version string) (*recipe.Record, error) {
	var doc mongoRecord
	err := m.coll.FindOne(ctx, bson.D{
		{Key: "name", Value: name},
		{Key: "version", Value: version},
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("%s/%s: %w", name, version, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s/%s: %w", name, version, err)
	}
	return fromDoc(doc), nil
}

// ListByName returns all versions stored for name, ascending by version.
// Version ordering is semantic, so sorting happens client-side rather than
// with a lexical Mongo sort.
func (m *Mongo) ListByName(ctx context.Context, name string) ([]*recipe.Record, error) {
	cur, err := m.coll.Find(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", name, err)
	}
	defer cur.Close(ctx)

	var out []*recipe.Record
	for cur.Next(ctx) {
		var doc mongoRecord
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, fromDoc(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	sortByVersion(out)
	return out, nil
}

// Remove deletes the record for (name, version), or returns ErrNotFound.
func (m *Mongo) Remove(ctx context.Context, name, version string) error {
	res, err := m.coll.DeleteOne(ctx, bson.D{
		{Key: "name", Value: name},
		{Key: "version", Value: version},
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", name, version, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s/%s: %w", name, version, ErrNotFound)
	}
	return nil
}

// Names returns all distinct record names in lexical order.
func (m *Mongo) Names(ctx context.Context) ([]string, error) {
	raw, err := m.coll.Distinct(ctx, "name", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct names: %w", err)
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Len returns the total number of stored records.
func (m *Mongo) Len(ctx context.Context) (int, error) {
	n, err := m.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return int(n), nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func toDoc(rec *recipe.Record) mongoRecord {
	doc := mongoRecord{
		Name:        rec.Name,
		Version:     rec.Version,
		Description: rec.Description,
		License:     rec.License,
		URL:         rec.URL,
		Topics:      rec.Topics,
		Libs:        rec.Libs,
	}
	for _, req := range rec.Requirements {
		doc.Requirements = append(doc.Requirements, mongoRequirement{
			Name:       req.Name,
			Constraint: req.Constraint,
		})
	}
	return doc
}

func fromDoc(doc mongoRecord) *recipe.Record {
	rec := &recipe.Record{
		Name:        doc.Name,
		Version:     doc.Version,
		Description: doc.Description,
		License:     doc.License,
		URL:         doc.URL,
		Topics:      doc.Topics,
		Libs:        doc.Libs,
	}
	for _, req := range doc.Requirements {
		rec.Requirements = append(rec.Requirements, recipe.Requirement{
			Name:       req.Name,
			Constraint: req.Constraint,
		})
	}
	return rec
}

// Ensure Mongo implements Store.
var _ Store = (*Mongo)(nil)
