package database

import "context"

// Transactor runs fn inside a transaction carried by the context passed to fn.
// Repositories pick the transaction up from that context.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
