package repositories

import "context"

// TransactionManager runs a unit of work atomically. The transaction travels inside the
// context handed to fn, and every repository call made with that context joins it.
type TransactionManager interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
