package policies

import "context"

// PropertyLocker serializes writers on a single property so read-validate-write
// cannot interleave and admit an overlapping pair. Lock blocks until the
// property lock is held or the context is done; the returned function releases
// it.
type PropertyLocker interface {
	Lock(ctx context.Context, propertyID string) (unlock func(), err error)
}
