package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductRepository is a MongoDB implementation of ProductRepository.
// Listing queries run as aggregation pipelines built by the catalog plan.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a new instance of MongoProductRepository.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(productsCollection)}
}

// GetAll returns all products, newest first.
func (r *MongoProductRepository) GetAll() ([]models.Product, error) {
	return r.Find(catalog.Build(catalog.Filter{}))
}

// Find runs plan as an aggregation pipeline.
func (r *MongoProductRepository) Find(plan catalog.Plan) ([]models.Product, error) {
	ctx, cancel := callContext()
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, plan.Pipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate products: %w", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	for i := range products {
		products[i].Derive()
	}
	return products, nil
}

// GetByID returns a product by its ID.
func (r *MongoProductRepository) GetByID(id string) (*models.Product, error) {
	ctx, cancel := callContext()
	defer cancel()

	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	product.Derive()
	return &product, nil
}

// Create inserts a new product document.
func (r *MongoProductRepository) Create(product *models.Product) error {
	ctx, cancel := callContext()
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.Derive()
	return nil
}

// Update replaces an existing product document.
func (r *MongoProductRepository) Update(product *models.Product) error {
	ctx, cancel := callContext()
	defer cancel()

	product.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	product.Derive()
	return nil
}

// Delete removes a product document.
func (r *MongoProductRepository) Delete(id string) error {
	ctx, cancel := callContext()
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
