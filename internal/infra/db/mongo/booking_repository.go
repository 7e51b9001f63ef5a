package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "booknblock/internal/domain/booking"
	domainproperty "booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/daterange"
	domainuser "booknblock/internal/domain/user"
)

// BookingRepository stores each booking as one document with its guests
// embedded, so replacing the guest list or deleting the booking cascades to
// the guests in the same write.
type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"property_id": string(propertyID)})
}

func (r *BookingRepository) ByPropertyExcludingStatus(ctx context.Context, propertyID domainproperty.ID, excluded domainbooking.Status) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{
		"property_id": string(propertyID),
		"status":      bson.M{"$ne": string(excluded)},
	})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainbooking.ErrNotFound
	}
	return nil
}

type bookingDocument struct {
	ID         string          `bson:"_id"`
	PropertyID string          `bson:"property_id"`
	OwnerID    string          `bson:"owner_id"`
	StartDate  int64           `bson:"start_date"`
	EndDate    int64           `bson:"end_date"`
	Status     string          `bson:"status"`
	Guests     []guestDocument `bson:"guests"`
	CreatedAt  int64           `bson:"created_at"`
	UpdatedAt  int64           `bson:"updated_at"`
}

type guestDocument struct {
	ID    string `bson:"id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	guests := make([]guestDocument, 0, len(b.Guests))
	for _, g := range b.Guests {
		guests = append(guests, guestDocument{ID: g.ID, Name: g.Name, Email: g.Email})
	}
	return bookingDocument{
		ID:         string(b.ID),
		PropertyID: string(b.PropertyID),
		OwnerID:    string(b.OwnerID),
		StartDate:  b.Range.Start.UnixMilli(),
		EndDate:    b.Range.End.UnixMilli(),
		Status:     string(b.Status),
		Guests:     guests,
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	guests := make([]domainbooking.Guest, 0, len(d.Guests))
	for _, g := range d.Guests {
		guests = append(guests, domainbooking.Guest{ID: g.ID, Name: g.Name, Email: g.Email})
	}
	return &domainbooking.Booking{
		ID:         domainbooking.ID(d.ID),
		PropertyID: domainproperty.ID(d.PropertyID),
		OwnerID:    domainuser.ID(d.OwnerID),
		Range:      daterange.DateRange{Start: timestampToTime(d.StartDate), End: timestampToTime(d.EndDate)},
		Status:     domainbooking.Status(d.Status),
		Guests:     guests,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}
