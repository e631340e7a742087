package ports

import (
	"context"

	"smartrouting/internal/domain"
)

// Port: boundary for looking up known addresses.
type AddressStore interface {
	// Find returns the addresses matching the given ids. Unknown ids are
	// simply absent from the result.
	Find(ctx context.Context, ids []int) ([]domain.Address, error)

	// List returns a page of stored addresses ordered by id, plus the
	// total match count. A non-empty search keeps only addresses whose
	// name contains it, case-insensitively.
	List(ctx context.Context, offset, limit int, search string) ([]domain.Address, int, error)
}
