package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainproperty "booknblock/internal/domain/property"
	domainuser "booknblock/internal/domain/user"
)

type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection("properties")}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	var doc propertyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproperty.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *PropertyRepository) Save(ctx context.Context, p *domainproperty.Property) error {
	doc := newPropertyDocument(p)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

type propertyDocument struct {
	ID          string   `bson:"_id"`
	OwnerID     string   `bson:"owner_id"`
	Name        string   `bson:"name"`
	Location    string   `bson:"location"`
	Description string   `bson:"description"`
	Managers    []string `bson:"managers"`
	CreatedAt   int64    `bson:"created_at"`
	UpdatedAt   int64    `bson:"updated_at"`
}

func newPropertyDocument(p *domainproperty.Property) propertyDocument {
	managers := make([]string, 0, len(p.Managers))
	for _, m := range p.Managers {
		managers = append(managers, string(m))
	}
	return propertyDocument{
		ID:          string(p.ID),
		OwnerID:     string(p.OwnerID),
		Name:        p.Name,
		Location:    p.Location,
		Description: p.Description,
		Managers:    managers,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
}

func (d propertyDocument) toEntity() *domainproperty.Property {
	managers := make([]domainuser.ID, 0, len(d.Managers))
	for _, m := range d.Managers {
		managers = append(managers, domainuser.ID(m))
	}
	return &domainproperty.Property{
		ID:          domainproperty.ID(d.ID),
		OwnerID:     domainuser.ID(d.OwnerID),
		Name:        d.Name,
		Location:    d.Location,
		Description: d.Description,
		Managers:    managers,
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
