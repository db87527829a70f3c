package ports

import "context"

// TxRunner executes fn with exclusive write access to the whole store.
// No other transaction's reads or writes interleave with fn, and the
// mutations fn performs are persisted only if fn returns nil (all-or-nothing).
// Every service operation that reads then writes runs inside this scope.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
