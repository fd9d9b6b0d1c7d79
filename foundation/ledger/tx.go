package ledger

import "errors"

// Transaction types. The type is inferred from whether watermark metadata
// was supplied with the submission.
const (
	TxTypeMining    = "mining"
	TxTypeWatermark = "watermark"
)

// Field truncation limits. Sender and receiver identifiers are truncated as
// a lossy space optimization, they are not cryptographic identities.
const (
	maxPartyLen = 8
	maxHashLen  = 16
)

// Set of errors for malformed transaction input. These are returned before
// any pool or chain mutation takes place.
var (
	ErrMissingSender   = errors.New("transaction sender is missing")
	ErrMissingReceiver = errors.New("transaction receiver is missing")
	ErrInvalidAmount   = errors.New("transaction amount must be greater than zero")
)

// Metadata carries the watermarking details recorded with a watermark
// transaction. The image and message hashes are produced by the
// steganography collaborator outside of this package.
type Metadata struct {
	ImageHash   string `json:"image_hash"`
	MessageHash string `json:"message_hash"`
	CreatedAt   string `json:"created_at"`
	FileSize    int64  `json:"file_size"`
}

// Tx is the compact record stored inside a block. The short JSON keys keep
// the on-chain encoding small.
type Tx struct {
	Sender    string  `json:"s"`
	Receiver  string  `json:"r"`
	Amount    float64 `json:"a"`
	Type      string  `json:"type"`
	ImgHash   string  `json:"img_hash,omitempty"`
	MsgHash   string  `json:"msg_hash,omitempty"`
	Timestamp string  `json:"timestamp,omitempty"`
	Size      int64   `json:"size,omitempty"`
}

// NewTx constructs a transaction from raw submission input, truncating the
// party identifiers and classifying the type from the metadata presence.
// Malformed input is rejected here, before the transaction can reach a pool.
func NewTx(sender string, receiver string, amount float64, md *Metadata) (Tx, error) {
	if sender == "" {
		return Tx{}, ErrMissingSender
	}
	if receiver == "" {
		return Tx{}, ErrMissingReceiver
	}
	if amount <= 0 {
		return Tx{}, ErrInvalidAmount
	}

	tx := Tx{
		Sender:   truncate(sender, maxPartyLen),
		Receiver: truncate(receiver, maxPartyLen),
		Amount:   amount,
		Type:     TxTypeMining,
	}

	if md != nil {
		tx.Type = TxTypeWatermark
		tx.ImgHash = truncate(md.ImageHash, maxHashLen)
		tx.MsgHash = truncate(md.MessageHash, maxHashLen)
		tx.Timestamp = md.CreatedAt
		tx.Size = md.FileSize
	}

	return tx, nil
}

// canonical produces the map form of the transaction used for hashing. The
// watermark fields only participate for watermark transactions.
func (tx Tx) canonical() map[string]any {
	m := map[string]any{
		"s":    tx.Sender,
		"r":    tx.Receiver,
		"a":    tx.Amount,
		"type": tx.Type,
	}

	if tx.Type == TxTypeWatermark {
		m["img_hash"] = tx.ImgHash
		m["msg_hash"] = tx.MsgHash
		m["timestamp"] = tx.Timestamp
		m["size"] = tx.Size
	}

	return m
}

// truncate caps a string at max bytes.
func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
