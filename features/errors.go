package features

import (
	"errors"
	"fmt"
)

type Entity string

const (
	EntitySupplier Entity = "supplier"
	EntitySite     Entity = "site"
	EntitySKU      Entity = "sku"
)

var (
	ErrNotFound         = errors.New("reference not found")
	ErrSupplierNotFound = fmt.Errorf("supplier %w", ErrNotFound)
	ErrSiteNotFound     = fmt.Errorf("site %w", ErrNotFound)
	ErrSKUNotFound      = fmt.Errorf("sku %w", ErrNotFound)
)

// NotFoundError names the reference id that did not resolve against the
// catalogs.
type NotFoundError struct {
	Entity Entity
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Unknown %s %s", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrSupplierNotFound:
		return e.Entity == EntitySupplier
	case ErrSiteNotFound:
		return e.Entity == EntitySite
	case ErrSKUNotFound:
		return e.Entity == EntitySKU
	}
	return false
}
