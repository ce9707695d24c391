package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument[T any] struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Owner string             `bson:"owner"`
	Doc   T                  `bson:",inline"`
}

// MongoCollection maps records onto documents of one MongoDB collection.
// ObjectIDs are monotonic per process, so _id order is creation order.
type MongoCollection[T any] struct {
	coll   *mongo.Collection
	schema Schema
}

func NewMongoCollection[T any](db *mongo.Database, schema Schema) *MongoCollection[T] {
	return &MongoCollection[T]{
		coll:   db.Collection(schema.Name, options.Collection().SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})),
		schema: schema,
	}
}

func (c *MongoCollection[T]) EnsureSchema(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "_id", Value: 1}}},
	}
	if c.schema.UniqueOwner {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "owner", Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}
	if c.schema.UniqueField != "" {
		indexes = append(indexes, mongo.IndexModel{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: c.schema.UniqueField, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
	}

	if _, err := c.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("ensure %s indexes: %w", c.schema.Name, err)
	}
	return nil
}

func (c *MongoCollection[T]) Insert(ctx context.Context, owner string, doc T) (Record[T], error) {
	res, err := c.coll.InsertOne(ctx, mongoDocument[T]{Owner: owner, Doc: doc})
	if err != nil {
		return Record[T]{}, c.mapError(err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return Record[T]{}, fmt.Errorf("insert %s: unexpected id type %T", c.schema.Name, res.InsertedID)
	}
	return Record[T]{ID: oid.Hex(), Owner: owner, Doc: doc}, nil
}

func (c *MongoCollection[T]) Find(ctx context.Context, filter Filter) ([]Record[T], error) {
	query, ok := mongoFilter(filter)
	if !ok {
		return nil, nil
	}

	cursor, err := c.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c.schema.Name, err)
	}

	var docs []mongoDocument[T]
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.schema.Name, err)
	}

	records := make([]Record[T], 0, len(docs))
	for _, doc := range docs {
		records = append(records, Record[T]{ID: doc.ID.Hex(), Owner: doc.Owner, Doc: doc.Doc})
	}
	return records, nil
}

func (c *MongoCollection[T]) FindOne(ctx context.Context, filter Filter) (Record[T], error) {
	query, ok := mongoFilter(filter)
	if !ok {
		return Record[T]{}, ErrNotFound
	}

	var doc mongoDocument[T]
	err := c.coll.FindOne(ctx, query, options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record[T]{}, ErrNotFound
		}
		return Record[T]{}, fmt.Errorf("query %s: %w", c.schema.Name, err)
	}
	return Record[T]{ID: doc.ID.Hex(), Owner: doc.Owner, Doc: doc.Doc}, nil
}

func (c *MongoCollection[T]) Update(ctx context.Context, filter Filter, doc T) error {
	if filter.ID == "" {
		return ErrNotFound
	}
	query, ok := mongoFilter(filter)
	if !ok {
		return ErrNotFound
	}

	res, err := c.coll.ReplaceOne(ctx, query, mongoDocument[T]{Owner: filter.Owner, Doc: doc})
	if err != nil {
		return c.mapError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *MongoCollection[T]) Delete(ctx context.Context, filter Filter) (int64, error) {
	query, ok := mongoFilter(filter)
	if !ok {
		return 0, nil
	}

	res, err := c.coll.DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", c.schema.Name, err)
	}
	return res.DeletedCount, nil
}

func (c *MongoCollection[T]) Owners(ctx context.Context) ([]string, error) {
	values, err := c.coll.Distinct(ctx, "owner", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("owners %s: %w", c.schema.Name, err)
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			owners = append(owners, s)
		}
	}
	return owners, nil
}

func (c *MongoCollection[T]) mapError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return fmt.Errorf("write %s: %w", c.schema.Name, err)
}

// mongoFilter reports false when the filter cannot match any document.
func mongoFilter(filter Filter) (bson.D, bool) {
	if filter.Owner == "" {
		return nil, false
	}

	query := bson.D{{Key: "owner", Value: filter.Owner}}
	if filter.ID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ID)
		if err != nil {
			return nil, false
		}
		query = append(query, bson.E{Key: "_id", Value: oid})
	}
	if filter.Field != "" {
		query = append(query, bson.E{Key: filter.Field, Value: filter.Value})
	}
	return query, true
}
