package mocks

import "context"

// TxRunner runs the closure directly. The in-memory mocks have no
// transactions to join, so atomicity is not exercised here; the
// repository integration tests cover that.
type TxRunner struct{}

func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
