package memory

import (
	"context"
	"sync"

	domainblock "booknblock/internal/domain/block"
	domainbooking "booknblock/internal/domain/booking"
	domainproperty "booknblock/internal/domain/property"
	domainuser "booknblock/internal/domain/user"
)

// In-memory repositories, mutex-guarded maps. They back tests and the default
// (no MONGO_URI) deployment. Aggregates are copied on the way in and out so a
// caller mutating a loaded aggregate cannot corrupt the store before Save.

type UserRepository struct {
	mu    sync.RWMutex
	items map[domainuser.ID]domainuser.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[domainuser.ID]domainuser.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.items {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (r *UserRepository) Save(ctx context.Context, user *domainuser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[user.ID] = *user
	return nil
}

type PropertyRepository struct {
	mu    sync.RWMutex
	items map[domainproperty.ID]domainproperty.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domainproperty.ID]domainproperty.Property)}
}

func (r *PropertyRepository) ByID(ctx context.Context, id domainproperty.ID) (*domainproperty.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, domainproperty.ErrNotFound
	}
	out := p
	out.Managers = append([]domainuser.ID(nil), p.Managers...)
	return &out, nil
}

func (r *PropertyRepository) Save(ctx context.Context, property *domainproperty.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *property
	stored.Managers = append([]domainuser.ID(nil), property.Managers...)
	r.items[property.ID] = stored
	return nil
}

type BlockRepository struct {
	mu    sync.RWMutex
	items map[domainblock.ID]domainblock.Block
}

func NewBlockRepository() *BlockRepository {
	return &BlockRepository{items: make(map[domainblock.ID]domainblock.Block)}
}

func (r *BlockRepository) ByID(ctx context.Context, id domainblock.ID) (*domainblock.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainblock.ErrNotFound
	}
	return &b, nil
}

func (r *BlockRepository) ByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainblock.Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainblock.Block
	for _, b := range r.items {
		if b.PropertyID == propertyID {
			item := b
			out = append(out, &item)
		}
	}
	return out, nil
}

func (r *BlockRepository) Save(ctx context.Context, block *domainblock.Block) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[block.ID] = *block
	return nil
}

func (r *BlockRepository) Delete(ctx context.Context, id domainblock.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainblock.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.ID]domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.ID]domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) ByProperty(ctx context.Context, propertyID domainproperty.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.PropertyID == propertyID {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) ByPropertyExcludingStatus(ctx context.Context, propertyID domainproperty.ID, excluded domainbooking.Status) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainbooking.Booking
	for _, b := range r.items {
		if b.PropertyID == propertyID && b.Status != excluded {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[booking.ID] = *cloneBooking(*booking)
	return nil
}

// Delete removes the booking and, with it, every guest it owns.
func (r *BookingRepository) Delete(ctx context.Context, id domainbooking.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainbooking.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneBooking(b domainbooking.Booking) *domainbooking.Booking {
	out := b
	out.Guests = append([]domainbooking.Guest(nil), b.Guests...)
	return &out
}
