package properties

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"booknblock/internal/domain/property"
	"booknblock/internal/domain/shared/apperr"
	"booknblock/internal/domain/user"
)

// Service covers property administration: creation and the owner-only manager
// roster. Block and booking mutations live in their own services.
type Service struct {
	Properties property.Repository
	Users      user.Repository
	Logger     *slog.Logger
	Clock      func() time.Time
}

type CreateParams struct {
	Name        string
	Location    string
	Description string
}

func (s *Service) Create(ctx context.Context, principal user.ID, params CreateParams) (*property.Property, error) {
	prop, err := property.NewProperty(property.CreateParams{
		ID:          property.ID(uuid.NewString()),
		OwnerID:     principal,
		Name:        params.Name,
		Location:    params.Location,
		Description: params.Description,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidInput, "invalid property", err)
	}
	if err := s.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("property created", "property_id", prop.ID, "owner_id", principal)
	}
	return prop, nil
}

func (s *Service) Get(ctx context.Context, id property.ID) (*property.Property, error) {
	prop, err := s.Properties.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "property not found with id %s", id)
		}
		return nil, err
	}
	return prop, nil
}

func (s *Service) AddManager(ctx context.Context, principal user.ID, id property.ID, managerID user.ID) (*property.Property, error) {
	prop, err := s.ownedBy(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.Users.ByID(ctx, managerID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "user not found with id %s", managerID)
		}
		return nil, err
	}
	prop.AddManager(managerID, s.now())
	if err := s.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	return prop, nil
}

func (s *Service) RemoveManager(ctx context.Context, principal user.ID, id property.ID, managerID user.ID) (*property.Property, error) {
	prop, err := s.ownedBy(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	prop.RemoveManager(managerID, s.now())
	if err := s.Properties.Save(ctx, prop); err != nil {
		return nil, err
	}
	return prop, nil
}

// ownedBy gates manager-roster changes to the owner alone; managers may not
// appoint other managers.
func (s *Service) ownedBy(ctx context.Context, principal user.ID, id property.ID) (*property.Property, error) {
	prop, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prop.OwnerID != principal {
		return nil, apperr.Unauthorized("you are not allowed to access this resource")
	}
	return prop, nil
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
