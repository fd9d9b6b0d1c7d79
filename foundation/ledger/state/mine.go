package state

import (
	"context"
	"errors"
	"time"

	"github.com/watermarkd/watermarkd/foundation/ledger"
)

// ErrNoTransactions is returned when a block is requested to be mined and
// the pending pool is empty.
var ErrNoTransactions = errors.New("no transactions in the pool")

// MineNextBlock batches the entire pending pool into one new block: it runs
// the proof of work search against the current top block's proof, appends
// the block with the pool snapshot in submission order and clears the pool.
// The mining lock is held for the whole operation so submissions and chain
// replacements can't interleave with the batch.
func (s *State) MineNextBlock(ctx context.Context) (ledger.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool.Count() == 0 {
		return ledger.Block{}, ErrNoTransactions
	}

	previousBlock := s.ledger.PreviousBlock()

	s.evHandler("state: MineNextBlock: MINING: started: txs[%d] top[%d]", s.pool.Count(), previousBlock.Index)

	t := time.Now()
	proof, err := ledger.Proof(ctx, previousBlock.Proof, s.ledger.Difficulty())
	if err != nil {
		s.evHandler("state: MineNextBlock: MINING: CANCELLED")
		return ledger.Block{}, err
	}
	duration := time.Since(t)

	// The previous hash is read through the ledger cache so the expensive
	// canonical hash is computed at most once per appended block.
	previousHash := s.ledger.PreviousHash()

	block := s.ledger.Append(proof, previousHash, s.pool.Drain())

	s.evHandler("state: MineNextBlock: MINING: completed: blk[%d] proof[%d] duration[%v]", block.Index, block.Proof, duration)

	if s.metrics != nil {
		s.metrics.ObserveMiningDuration(duration)
		s.metrics.IncBlocksMined()
	}

	return block, nil
}
