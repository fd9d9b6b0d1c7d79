package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// DefaultDifficulty is the number of leading zero hex characters a proof
// digest must carry when no difficulty is configured. Expected search cost
// grows as 16^difficulty, so this is the sole throughput knob.
const DefaultDifficulty = 4

// cancelCheckInterval controls how often the search loop checks for a
// cancelled context.
const cancelCheckInterval = 1024

// Proof performs the proof of work search: the smallest proof >= 1 whose
// digest relative to the previous proof begins with difficulty leading zero
// characters. The scan is linear from 1, incrementing by 1, so the result is
// deterministic for any (previousProof, difficulty) pair.
//
// The search has no upper bound, so a pathological difficulty can run
// effectively forever. The context provides a cancellation signal for
// shutdown and for a caller-imposed time budget.
func Proof(ctx context.Context, previousProof int, difficulty int) (int, error) {
	for newProof := 1; ; newProof++ {
		if newProof%cancelCheckInterval == 0 && ctx.Err() != nil {
			return 0, ctx.Err()
		}

		if IsValidProof(previousProof, newProof, difficulty) {
			return newProof, nil
		}
	}
}

// IsValidProof reports whether the digest for the specified proof pair meets
// the difficulty target.
//
// Note the puzzle hashes only the two proof integers, not the block's
// transactions, previous hash or timestamp. The proof does not bind the
// mined block's content; content integrity comes solely from the
// previous_hash chain link.
func IsValidProof(previousProof int, proof int, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}

	digest := powDigest(proof, previousProof)
	return strings.HasPrefix(digest, strings.Repeat("0", difficulty))
}

// powDigest hashes the decimal text of newProof^2 - previousProof^2.
func powDigest(newProof int, previousProof int) string {
	op := int64(newProof)*int64(newProof) - int64(previousProof)*int64(previousProof)
	hash := sha256.Sum256([]byte(strconv.FormatInt(op, 10)))
	return hex.EncodeToString(hash[:])
}
