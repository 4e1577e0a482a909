package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicware/clinic-backoffice/internal/core/domain"
	"github.com/clinicware/clinic-backoffice/internal/core/ports"
)

const itemsCollection = "items"

// ItemRepository implements ports.ItemRepository on MongoDB.
type ItemRepository struct {
	coll *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{coll: db.Collection(itemsCollection)}
}

type mongoItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Quantity  int                `bson:"quantity"`
	Price     float64            `bson:"price"`
	BranchID  string             `bson:"branch_id,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mi *mongoItem) toDomain() *domain.Item {
	return &domain.Item{
		ID:        mi.ID.Hex(),
		Name:      mi.Name,
		Quantity:  mi.Quantity,
		Price:     mi.Price,
		BranchID:  mi.BranchID,
		CreatedAt: unixToTime(mi.CreatedAt),
		UpdatedAt: unixToTime(mi.UpdatedAt),
	}
}

func (r *ItemRepository) Create(ctx context.Context, i *domain.Item) (*domain.Item, error) {
	doc := mongoItem{
		Name:      i.Name,
		Quantity:  i.Quantity,
		Price:     i.Price,
		BranchID:  i.BranchID,
		CreatedAt: i.CreatedAt.Unix(),
		UpdatedAt: i.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	created := *i
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	var mi mongoItem
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer cur.Close(ctx)

	var items []domain.Item
	for cur.Next(ctx) {
		var mi mongoItem
		if err := cur.Decode(&mi); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		items = append(items, *mi.toDomain())
	}
	return items, cur.Err()
}

func (r *ItemRepository) Update(ctx context.Context, i *domain.Item) (*domain.Item, error) {
	oid, err := primitive.ObjectIDFromHex(i.ID)
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       i.Name,
		"quantity":   i.Quantity,
		"price":      i.Price,
		"branch_id":  i.BranchID,
		"updated_at": i.UpdatedAt.Unix(),
	}})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrItemNotFound
	}
	return i, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrItemNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

var _ ports.ItemRepository = (*ItemRepository)(nil)
