package blocks

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"booknblock/internal/app/availability"
	"booknblock/internal/app/policies"
	"booknblock/internal/domain/block"
	"booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/shared/daterange"
	"booknblock/internal/domain/user"
)

// Service implements the block mutations. Every operation takes the resolved
// principal explicitly; nothing here reads ambient authentication state.
type Service struct {
	Properties property.Repository
	Blocks     block.Repository
	Validator  availability.Validator
	Locker     policies.PropertyLocker
	Publisher  policies.EventPublisher
	Logger     *slog.Logger
	Clock      func() time.Time
}

type CreateParams struct {
	PropertyID property.ID
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

type UpdateParams struct {
	BlockID   block.ID
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

func (s *Service) Create(ctx context.Context, principal user.ID, params CreateParams) (*block.Block, error) {
	prop, err := s.Properties.ByID(ctx, params.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "property not found with id %s", params.PropertyID)
		}
		return nil, err
	}
	if !prop.CanManage(principal) {
		return nil, apperr.Unauthorized("you are not allowed to access this resource")
	}

	r, err := daterange.New(params.StartDate, params.EndDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid block dates", err)
	}

	unlock, err := s.lock(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.Validator.ValidateBlockDates(ctx, availability.BlockDatesQuery{
		PropertyID: prop.ID,
		Range:      r,
	}); err != nil {
		return nil, err
	}

	blk, err := block.NewBlock(block.CreateParams{
		ID:         block.ID(uuid.NewString()),
		PropertyID: prop.ID,
		Range:      r,
		Reason:     params.Reason,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := s.Blocks.Save(ctx, blk); err != nil {
		return nil, err
	}
	s.publish(ctx, "block.created", blk)
	return blk, nil
}

func (s *Service) Update(ctx context.Context, principal user.ID, params UpdateParams) (*block.Block, error) {
	blk, prop, err := s.loadAuthorized(ctx, principal, params.BlockID)
	if err != nil {
		return nil, err
	}

	r, err := daterange.New(params.StartDate, params.EndDate)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid block dates", err)
	}

	unlock, err := s.lock(ctx, prop.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.Validator.ValidateBlockDates(ctx, availability.BlockDatesQuery{
		PropertyID:     prop.ID,
		Range:          r,
		ExcludeBlockID: blk.ID,
	}); err != nil {
		return nil, err
	}
	if err := blk.Reschedule(r, params.Reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.Blocks.Save(ctx, blk); err != nil {
		return nil, err
	}
	s.publish(ctx, "block.updated", blk)
	return blk, nil
}

func (s *Service) Delete(ctx context.Context, principal user.ID, id block.ID) error {
	blk, prop, err := s.loadAuthorized(ctx, principal, id)
	if err != nil {
		return err
	}

	unlock, err := s.lock(ctx, prop.ID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.Blocks.Delete(ctx, blk.ID); err != nil {
		return err
	}
	s.publish(ctx, "block.deleted", blk)
	return nil
}

// loadAuthorized fetches the block and its property, then runs the
// owner-or-manager gate before anything else touches the data.
func (s *Service) loadAuthorized(ctx context.Context, principal user.ID, id block.ID) (*block.Block, *property.Property, error) {
	blk, err := s.Blocks.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, block.ErrNotFound) {
			return nil, nil, apperr.Newf(apperr.KindNotFound, "block not found with id %s", id)
		}
		return nil, nil, err
	}
	prop, err := s.Properties.ByID(ctx, blk.PropertyID)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, nil, apperr.Newf(apperr.KindNotFound, "property not found with id %s", blk.PropertyID)
		}
		return nil, nil, err
	}
	if !prop.CanManage(principal) {
		return nil, nil, apperr.Unauthorized("you are not allowed to access this resource")
	}
	return blk, prop, nil
}

func (s *Service) lock(ctx context.Context, id property.ID) (func(), error) {
	if s.Locker == nil {
		return func() {}, nil
	}
	return s.Locker.Lock(ctx, string(id))
}

func (s *Service) publish(ctx context.Context, eventType string, blk *block.Block) {
	if s.Publisher == nil {
		return
	}
	err := s.Publisher.Publish(ctx, policies.Event{
		Type:       eventType,
		PropertyID: string(blk.PropertyID),
		EntityID:   string(blk.ID),
		OccurredAt: s.now().UnixMilli(),
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("event publish failed", "type", eventType, "block_id", blk.ID, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
