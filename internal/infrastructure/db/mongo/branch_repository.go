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

const branchesCollection = "branches"

// BranchRepository implements ports.BranchRepository on MongoDB.
type BranchRepository struct {
	coll *mongo.Collection
}

func NewBranchRepository(db *mongo.Database) *BranchRepository {
	return &BranchRepository{coll: db.Collection(branchesCollection)}
}

type mongoBranch struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Address   string             `bson:"address,omitempty"`
	Phone     string             `bson:"phone,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mb *mongoBranch) toDomain() *domain.Branch {
	return &domain.Branch{
		ID:        mb.ID.Hex(),
		Name:      mb.Name,
		Address:   mb.Address,
		Phone:     mb.Phone,
		CreatedAt: unixToTime(mb.CreatedAt),
		UpdatedAt: unixToTime(mb.UpdatedAt),
	}
}

func (r *BranchRepository) Create(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	doc := mongoBranch{
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt.Unix(),
		UpdatedAt: b.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert branch: %w", err)
	}

	created := *b
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *BranchRepository) FindByID(ctx context.Context, id string) (*domain.Branch, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBranchNotFound
	}

	var mb mongoBranch
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBranchNotFound
		}
		return nil, fmt.Errorf("find branch: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer cur.Close(ctx)

	var branches []domain.Branch
	for cur.Next(ctx) {
		var mb mongoBranch
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode branch: %w", err)
		}
		branches = append(branches, *mb.toDomain())
	}
	return branches, cur.Err()
}

func (r *BranchRepository) Update(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return nil, domain.ErrBranchNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"name":       b.Name,
		"address":    b.Address,
		"phone":      b.Phone,
		"updated_at": b.UpdatedAt.Unix(),
	}})
	if err != nil {
		return nil, fmt.Errorf("update branch: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrBranchNotFound
	}
	return b, nil
}

func (r *BranchRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBranchNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBranchNotFound
	}
	return nil
}

func (r *BranchRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count branches: %w", err)
	}
	return n, nil
}

var _ ports.BranchRepository = (*BranchRepository)(nil)
