// Package ledger implements the append-only watermark ledger: blocks,
// canonical hashing, the proof of work puzzle, the pending transaction
// pool and chain validation.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// GenesisParentHash is the previous hash value carried by the genesis block.
const GenesisParentHash = "0"

// TimestampLayout is the format of the block timestamp string. The string is
// captured once when the block is created and is part of the hashed content,
// so it must be stored and re-hashed verbatim, never recomputed.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Block represents a group of transactions batched together with the proof
// that was mined for them. Blocks are immutable once appended to a chain.
type Block struct {
	Index        int    `json:"index"`
	Timestamp    string `json:"timestamp"`
	Proof        int    `json:"proof"`
	PreviousHash string `json:"previous_hash"`
	Transactions []Tx   `json:"transactions"`
}

// newBlock constructs a block capturing the creation timestamp.
func newBlock(index int, proof int, previousHash string, txs []Tx) Block {
	return Block{
		Index:        index,
		Timestamp:    time.Now().UTC().Format(TimestampLayout),
		Proof:        proof,
		PreviousHash: previousHash,
		Transactions: txs,
	}
}

// Hash returns the canonical hash for the block: a SHA-256 digest over the
// JSON encoding of the block's fields with keys sorted at every nesting
// level, rendered as 64 lowercase hex characters. Two structurally equal
// blocks hash identically regardless of how they were constructed.
func (b Block) Hash() string {
	data, err := json.Marshal(b.canonical())
	if err != nil {

		// The canonical form only contains strings and numbers, so this
		// can't happen with a well-formed block.
		return GenesisParentHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// canonical produces the map form of the block used for hashing. Marshaling
// a map gives fully deterministic, name-sorted key order at every level.
func (b Block) canonical() map[string]any {
	txs := make([]map[string]any, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.canonical()
	}

	return map[string]any{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash,
		"transactions":  txs,
	}
}
