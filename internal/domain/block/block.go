package block

import (
	"context"
	"errors"
	"strings"
	"time"

	"booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/daterange"
)

var (
	ErrIDRequired       = errors.New("block: id is required")
	ErrPropertyRequired = errors.New("block: property is required")
	ErrNotFound         = errors.New("block: not found")
)

type ID string

// Block is an owner/manager-declared unavailability window on a property.
// It carries no guest; its range keeps bookings out.
type Block struct {
	ID         ID
	PropertyID property.ID
	Range      daterange.DateRange
	Reason     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Block, error)
	ByProperty(ctx context.Context, propertyID property.ID) ([]*Block, error)
	Save(ctx context.Context, block *Block) error
	Delete(ctx context.Context, id ID) error
}

type CreateParams struct {
	ID         ID
	PropertyID property.ID
	Range      daterange.DateRange
	Reason     string
	CreatedAt  time.Time
}

func NewBlock(params CreateParams) (*Block, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.PropertyID)) == "" {
		return nil, ErrPropertyRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Block{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		Range:      params.Range,
		Reason:     strings.TrimSpace(params.Reason),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Reschedule replaces the block's window and reason. Conflict checking is the
// caller's responsibility; the block only guards range validity.
func (b *Block) Reschedule(r daterange.DateRange, reason string, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	b.Range = r
	b.Reason = strings.TrimSpace(reason)
	b.UpdatedAt = now.UTC()
	return nil
}
