package data

import "context"

// TransactionManager runs f in a transaction carried by ctx. Get returns the session for ctx,
// which is the running transaction inside Do.
type TransactionManager interface {
	Do(ctx context.Context, f func(ctx context.Context) error) error
	Get(ctx context.Context) any
}
