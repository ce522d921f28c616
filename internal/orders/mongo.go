package orders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

const ordersCollection = "orders"

// MongoStore is the production Store backed by the orders collection.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Save(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	order.ID = primitive.NilObjectID
	order.CreatedAt = time.Now().UTC()
	if order.TrackingEvents == nil {
		order.TrackingEvents = []models.TrackingEvent{}
	}

	res, err := s.db.Collection(ordersCollection).InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	order.ID = id
	return id, nil
}

func (s *MongoStore) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (s *MongoStore) ListByOwner(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.list(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx, bson.M{})
}

func (s *MongoStore) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection(ordersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) Update(ctx context.Context, id primitive.ObjectID, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.TrackingNumber != nil {
		set["trackingNumber"] = *patch.TrackingNumber
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.TrackingEvents != nil {
		set["trackingEvents"] = patch.TrackingEvents
	}

	res, err := s.db.Collection(ordersCollection).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
