// Package state is the core API for the watermark ledger node and
// implements all the business rules and processing.
package state

import (
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/watermarkd/watermarkd/foundation/ledger"
	"github.com/watermarkd/watermarkd/foundation/ledger/peer"
)

// defaultPeerTimeout bounds each individual peer chain fetch during
// consensus resolution so a slow or unreachable peer can't stall the pass.
const defaultPeerTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of mining and consensus.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining and consensus resolution.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// MetricsObserver is the hook the metrics layer provides to record mining
// outcomes. A nil observer is safe.
type MetricsObserver interface {
	ObserveMiningDuration(d time.Duration)
	IncBlocksMined()
}

// =============================================================================

// Config represents the configuration required to start the ledger node.
type Config struct {
	Host        string
	Difficulty  int
	PeerTimeout time.Duration
	KnownPeers  *peer.PeerSet
	EvHandler   EventHandler
	Metrics     MetricsObserver
}

// State manages the ledger, the pending transaction pool and the known peer
// set. The mutex is the single mining lock required by the concurrency
// model: it serializes every operation that appends to the chain, replaces
// the chain or mutates the pool. Reads used purely for display take the
// shared side and may observe a slightly stale snapshot.
type State struct {
	mu sync.RWMutex

	host      string
	evHandler EventHandler
	metrics   MetricsObserver

	ledger     *ledger.Ledger
	pool       *ledger.Pool
	knownPeers *peer.PeerSet
	client     *resty.Client

	Worker Worker
}

// New constructs a new ledger state for node operation.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	peerTimeout := cfg.PeerTimeout
	if peerTimeout <= 0 {
		peerTimeout = defaultPeerTimeout
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	state := State{
		host:       cfg.Host,
		evHandler:  ev,
		metrics:    cfg.Metrics,
		ledger:     ledger.New(cfg.Difficulty),
		pool:       ledger.NewPool(),
		knownPeers: knownPeers,
		client:     resty.New().SetTimeout(peerTimeout),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Host returns this node's own network location.
func (s *State) Host() string {
	return s.host
}

// =============================================================================

// SubmitTransaction validates the raw submission, adds it to the pending
// pool and returns the index of the block the transaction is expected to
// land in. The prediction is advisory only, not a reservation: a concurrent
// mining call may batch later submissions into the same block, or a chain
// replacement may overtake it.
func (s *State) SubmitTransaction(sender string, receiver string, amount float64, md *ledger.Metadata) (int, error) {

	// Reject malformed input before taking the lock so a bad submission
	// can never leave partial state behind.
	tx, err := ledger.NewTx(sender, receiver, amount, md)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool.Add(tx)
	predicted := s.ledger.PreviousBlock().Index + 1

	s.evHandler("state: SubmitTransaction: type[%s] pending[%d] predicted[%d]", tx.Type, s.pool.Count(), predicted)

	return predicted, nil
}
