package ledger

// prevCache is a two slot invalidate-on-write cache for the previous block
// and its canonical hash. The block slot is populated on every write so
// readers never mutate the cache; the hash slot is memoized on first read
// by the mining path, which holds the write side of the mining lock.
type prevCache struct {
	block *Block
	hash  string
}

// Ledger holds the ordered, append-only chain of blocks. A ledger is not
// safe for concurrent use. Callers that share one across goroutines must
// serialize access behind a single mining lock; see the state package.
type Ledger struct {
	difficulty int
	chain      []Block
	cache      prevCache
}

// New constructs a ledger, creating the genesis block synchronously. A
// non-positive difficulty selects the default. The chain is never empty.
func New(difficulty int) *Ledger {
	if difficulty <= 0 {
		difficulty = DefaultDifficulty
	}

	l := Ledger{
		difficulty: difficulty,
	}
	l.Append(1, GenesisParentHash, nil)

	return &l
}

// Append creates a new block at index len(chain)+1 holding the specified
// transactions and adds it to the chain. The cached hash is invalidated and
// the cached block is refreshed to the new top of chain.
func (l *Ledger) Append(proof int, previousHash string, txs []Tx) Block {
	block := newBlock(len(l.chain)+1, proof, previousHash, txs)
	l.chain = append(l.chain, block)
	l.cache = prevCache{block: &block}

	return block
}

// PreviousBlock returns the current top of chain. The cached block is kept
// current by every write, so concurrent readers never touch the cache.
func (l *Ledger) PreviousBlock() Block {
	return *l.cache.block
}

// PreviousHash returns the canonical hash of the current top of chain,
// memoized until the next write. Callers must hold the write side of the
// mining lock since the first read after a write populates the slot.
func (l *Ledger) PreviousHash() string {
	if l.cache.hash == "" {
		l.cache.hash = l.PreviousBlock().Hash()
	}

	return l.cache.hash
}

// Replace swaps the local chain wholesale for the specified one. Used by
// consensus resolution after the candidate has been validated, so the
// chain is never empty.
func (l *Ledger) Replace(chain []Block) {
	top := chain[len(chain)-1]
	l.chain = chain
	l.cache = prevCache{block: &top}
}

// Chain returns a copy of the chain for read-only use. The transaction
// slices are copied too, so mutating a snapshot can never reach the stored
// blocks.
func (l *Ledger) Chain() []Block {
	chain := make([]Block, len(l.chain))
	for i, block := range l.chain {
		if len(block.Transactions) > 0 {
			txs := make([]Tx, len(block.Transactions))
			copy(txs, block.Transactions)
			block.Transactions = txs
		}
		chain[i] = block
	}

	return chain
}

// Height returns the number of blocks in the chain.
func (l *Ledger) Height() int {
	return len(l.chain)
}

// Difficulty returns the configured proof of work difficulty.
func (l *Ledger) Difficulty() int {
	return l.difficulty
}

// Audit validates the local chain in place.
func (l *Ledger) Audit() bool {
	return IsChainValid(l.chain, l.difficulty)
}
