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

const patientsCollection = "patients"

// PatientRepository implements ports.PatientRepository on MongoDB.
type PatientRepository struct {
	coll *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{coll: db.Collection(patientsCollection)}
}

type mongoPatient struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FirstName string             `bson:"first_name"`
	LastName  string             `bson:"last_name"`
	Email     string             `bson:"email,omitempty"`
	Phone     string             `bson:"phone,omitempty"`
	Address   string             `bson:"address,omitempty"`
	BranchID  string             `bson:"branch_id,omitempty"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func (mp *mongoPatient) toDomain() *domain.Patient {
	return &domain.Patient{
		ID:        mp.ID.Hex(),
		FirstName: mp.FirstName,
		LastName:  mp.LastName,
		Email:     mp.Email,
		Phone:     mp.Phone,
		Address:   mp.Address,
		BranchID:  mp.BranchID,
		CreatedAt: unixToTime(mp.CreatedAt),
		UpdatedAt: unixToTime(mp.UpdatedAt),
	}
}

func (r *PatientRepository) Create(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	doc := mongoPatient{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		BranchID:  p.BranchID,
		CreatedAt: p.CreatedAt.Unix(),
		UpdatedAt: p.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PatientRepository) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPatientNotFound
	}

	var mp mongoPatient
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("find patient: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PatientRepository) List(ctx context.Context, search string) ([]domain.Patient, error) {
	filter := bson.M{}
	if search != "" {
		rx := primitive.Regex{Pattern: search, Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"first_name": rx},
			bson.M{"last_name": rx},
		}}
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "last_name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer cur.Close(ctx)

	var patients []domain.Patient
	for cur.Next(ctx) {
		var mp mongoPatient
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode patient: %w", err)
		}
		patients = append(patients, *mp.toDomain())
	}
	return patients, cur.Err()
}

func (r *PatientRepository) Update(ctx context.Context, p *domain.Patient) (*domain.Patient, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, domain.ErrPatientNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"email":      p.Email,
		"phone":      p.Phone,
		"address":    p.Address,
		"branch_id":  p.BranchID,
		"updated_at": p.UpdatedAt.Unix(),
	}})
	if err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrPatientNotFound
	}
	return p, nil
}

func (r *PatientRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPatientNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPatientNotFound
	}
	return nil
}

func (r *PatientRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

var _ ports.PatientRepository = (*PatientRepository)(nil)
