package charity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const DefaultCollection = "charitySelections"

type selectionDoc struct {
	UserName  string    `bson:"_id"`
	CharityID string    `bson:"charityId"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps one document per user in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and checks the server is reachable.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("charity: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("charity: ping: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, user string) (Selection, error) {
	var doc selectionDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: user}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Selection{}, ErrNoSelection
	}
	if err != nil {
		return Selection{}, err
	}
	return Selection{UserName: doc.UserName, CharityID: doc.CharityID, UpdatedAt: doc.UpdatedAt}, nil
}

// Set upserts the user's document.
func (s *MongoStore) Set(ctx context.Context, sel Selection) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "charityId", Value: sel.CharityID},
		{Key: "updatedAt", Value: sel.UpdatedAt},
	}}}

	_, err := s.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: sel.UserName}}, update, options.UpdateOne().SetUpsert(true))
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
