package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainblock "booknblock/internal/domain/block"
	domainproperty "booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/daterange"
)

type BlockRepository struct {
	col *mongo.Collection
}

func NewBlockRepository(db *mongo.Database) *BlockRepository {
	return &BlockRepository{col: db.Collection("blocks")}
}

func (r *BlockRepository) ByID(ctx context.Context, id domainblock.ID) (*domainblock.Block, error) {
	var doc blockDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainblock.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *BlockRepository) ByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainblock.Block, error) {
	cur, err := r.col.Find(ctx, bson.M{"property_id": string(propertyID)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainblock.Block
	for cur.Next(ctx) {
		var doc blockDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toEntity())
	}
	return out, cur.Err()
}

func (r *BlockRepository) Save(ctx context.Context, b *domainblock.Block) error {
	doc := newBlockDocument(b)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *BlockRepository) Delete(ctx context.Context, id domainblock.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainblock.ErrNotFound
	}
	return nil
}

type blockDocument struct {
	ID         string `bson:"_id"`
	PropertyID string `bson:"property_id"`
	StartDate  int64  `bson:"start_date"`
	EndDate    int64  `bson:"end_date"`
	Reason     string `bson:"reason"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func newBlockDocument(b *domainblock.Block) blockDocument {
	return blockDocument{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		StartDate:  b.Range.Start.UnixMilli(),
		EndDate:    b.Range.End.UnixMilli(),
		Reason:     b.Reason,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
	}
}

func (d blockDocument) toEntity() *domainblock.Block {
	return &domainblock.Block{
		ID:         domainblock.ID(d.ID),
		PropertyID: domainproperty.ID(d.PropertyID),
		Range:      daterange.DateRange{Start: timestampToTime(d.StartDate), End: timestampToTime(d.EndDate)},
		Reason:     d.Reason,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}
