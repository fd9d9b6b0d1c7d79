package ledger

// IsChainValid walks a candidate chain verifying, for every adjacent pair of
// blocks, that the stored previous hash matches the canonical hash of the
// prior block and that the proof pair satisfies the proof of work predicate
// at the specified difficulty. It performs no repair and has no side
// effects. An empty chain is invalid since a chain always carries at least
// the genesis block.
func IsChainValid(chain []Block, difficulty int) bool {
	if len(chain) == 0 {
		return false
	}

	previous := chain[0]
	for _, block := range chain[1:] {
		if block.PreviousHash != previous.Hash() {
			return false
		}

		if !IsValidProof(previous.Proof, block.Proof, difficulty) {
			return false
		}

		previous = block
	}

	return true
}
