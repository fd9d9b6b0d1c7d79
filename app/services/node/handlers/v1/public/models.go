package public

import "github.com/watermarkd/watermarkd/foundation/ledger"

// submitTx is what a collaborator posts to add a transaction to the pool.
// The metadata block is only present for watermark transactions.
type submitTx struct {
	Sender   string           `json:"sender" validate:"required"`
	Receiver string           `json:"receiver" validate:"required"`
	Amount   float64          `json:"amount" validate:"required,gt=0"`
	Metadata *ledger.Metadata `json:"metadata,omitempty"`
}

// submitResult reports where a submitted transaction is expected to land.
// The index is advisory, not a reservation.
type submitResult struct {
	Status         string `json:"status"`
	PredictedBlock int    `json:"predicted_block"`
}

// chainInfo is the public snapshot of the chain.
type chainInfo struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}
