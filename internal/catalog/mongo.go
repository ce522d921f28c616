package catalog

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

const productsCollection = "products"

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) List(ctx context.Context, q Query) ([]models.Product, error) {
	filter := bson.M{"country": q.Country}

	if category := strings.TrimSpace(q.Category); category != "" {
		filter["category"] = category
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	if q.FeaturedOnly {
		filter["featured"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.db.Collection(productsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := s.db.Collection(productsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *MongoStore) Insert(ctx context.Context, product models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	_, err := s.db.Collection(productsCollection).InsertOne(ctx, product)
	return err
}

func (s *MongoStore) Update(ctx context.Context, id string, patch ProductPatch) (models.Product, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.InStock != nil {
		set["inStock"] = *patch.InStock
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := s.db.Collection(productsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&product)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Collection(productsCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports how many products exist across all countries. Used by the
// seed loader to decide whether the collection needs seeding.
func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	return s.db.Collection(productsCollection).CountDocuments(ctx, bson.M{})
}
