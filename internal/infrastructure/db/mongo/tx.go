package mongo

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxRunner implements ports.TxRunner on MongoDB sessions.
//
// The process-wide mutex serializes every read-modify-write scope against
// every other, so two accepts on the same job (or a delete racing an accept)
// can never interleave. The session transaction supplies the all-or-nothing
// commit: when fn returns an error nothing it wrote becomes visible.
type TxRunner struct {
	client *mongo.Client
	mu     sync.Mutex
}

func NewTxRunner(client *mongo.Client) *TxRunner {
	return &TxRunner{client: client}
}

// RunInTx executes fn inside a single MongoDB transaction. Repository calls
// made with the context passed to fn join the transaction automatically.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
