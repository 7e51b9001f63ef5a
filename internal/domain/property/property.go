package property

import (
	"context"
	"errors"
	"strings"
	"time"

	"booknblock/internal/domain/user"
)

var (
	ErrIDRequired    = errors.New("property: id is required")
	ErrOwnerRequired = errors.New("property: owner is required")
	ErrNameRequired  = errors.New("property: name is required")
	ErrNotFound      = errors.New("property: not found")
)

type ID string

// Property is a rentable unit. OwnerID is the user who created it; Managers
// may mutate its blocks but not its ownership. The owner is expected never to
// appear in Managers, though nothing structural enforces that.
type Property struct {
	ID          ID
	OwnerID     user.ID
	Name        string
	Location    string
	Description string
	Managers    []user.ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Property, error)
	Save(ctx context.Context, property *Property) error
}

type CreateParams struct {
	ID          ID
	OwnerID     user.ID
	Name        string
	Location    string
	Description string
	CreatedAt   time.Time
}

func NewProperty(params CreateParams) (*Property, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if strings.TrimSpace(string(params.OwnerID)) == "" {
		return nil, ErrOwnerRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Property{
		ID:          params.ID,
		OwnerID:     params.OwnerID,
		Name:        name,
		Location:    strings.TrimSpace(params.Location),
		Description: strings.TrimSpace(params.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanManage reports whether the principal may mutate this property's blocks:
// the owner or any listed manager.
func (p *Property) CanManage(principal user.ID) bool {
	if principal == "" {
		return false
	}
	if principal == p.OwnerID {
		return true
	}
	for _, m := range p.Managers {
		if m == principal {
			return true
		}
	}
	return false
}

// AddManager registers a manager id. Adding the owner or an existing manager
// is a no-op.
func (p *Property) AddManager(id user.ID, now time.Time) {
	if id == "" || id == p.OwnerID {
		return
	}
	for _, m := range p.Managers {
		if m == id {
			return
		}
	}
	p.Managers = append(p.Managers, id)
	p.UpdatedAt = now.UTC()
}

func (p *Property) RemoveManager(id user.ID, now time.Time) {
	for i, m := range p.Managers {
		if m == id {
			p.Managers = append(p.Managers[:i], p.Managers[i+1:]...)
			p.UpdatedAt = now.UTC()
			return
		}
	}
}
