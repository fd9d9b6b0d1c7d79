package ledger

// Pool buffers submitted transactions until a mining operation moves the
// entire contents, atomically, into exactly one new block. Like the Ledger,
// a Pool is not safe for concurrent use on its own; the state package
// serializes every operation that mutates it.
type Pool struct {
	txs []Tx
}

// NewPool constructs an empty pending transaction pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add appends a transaction to the pool, preserving submission order.
func (p *Pool) Add(tx Tx) {
	p.txs = append(p.txs, tx)
}

// Count returns the number of pending transactions.
func (p *Pool) Count() int {
	return len(p.txs)
}

// Copy returns the pending transactions in submission order.
func (p *Pool) Copy() []Tx {
	txs := make([]Tx, len(p.txs))
	copy(txs, p.txs)

	return txs
}

// Drain removes and returns every pending transaction as one unit. There is
// no partial batching and no per-transaction selection policy.
func (p *Pool) Drain() []Tx {
	txs := p.txs
	p.txs = nil

	return txs
}

// Truncate clears the pool without returning the transactions.
func (p *Pool) Truncate() {
	p.txs = nil
}
