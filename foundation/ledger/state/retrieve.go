package state

import (
	"github.com/watermarkd/watermarkd/foundation/ledger"
	"github.com/watermarkd/watermarkd/foundation/ledger/peer"
)

// Stats is the observational snapshot served to dashboards and metrics
// collectors.
type Stats struct {
	ChainLength         int `json:"chain_length"`
	PendingTransactions int `json:"pending_transactions"`
	Difficulty          int `json:"difficulty"`
}

// RetrieveChain returns a read-only copy of the chain.
func (s *State) RetrieveChain() []ledger.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Chain()
}

// RetrieveLatestBlock returns the current top of chain.
func (s *State) RetrieveLatestBlock() ledger.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.PreviousBlock()
}

// RetrievePendingTransactions returns a copy of the pending pool in
// submission order.
func (s *State) RetrievePendingTransactions() []ledger.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pool.Copy()
}

// RetrieveStats returns the current chain and pool statistics.
func (s *State) RetrieveStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		ChainLength:         s.ledger.Height(),
		PendingTransactions: s.pool.Count(),
		Difficulty:          s.ledger.Difficulty(),
	}
}

// Difficulty returns the configured proof of work difficulty.
func (s *State) Difficulty() int {
	return s.ledger.Difficulty()
}

// IsChainValid validates a candidate chain against this node's difficulty.
// It is used both to self-audit the local ledger and to gate acceptance of a
// peer supplied chain.
func (s *State) IsChainValid(chain []ledger.Block) bool {
	return ledger.IsChainValid(chain, s.ledger.Difficulty())
}

// Audit validates the local chain. An invalid local chain is fatal for the
// process; the caller decides how to act on the result.
func (s *State) Audit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Audit()
}

// =============================================================================

// AddKnownPeer registers a peer address, reporting whether it was newly
// added. Addresses are normalized to host:port and deduplicated.
func (s *State) AddKnownPeer(address string) (bool, error) {
	p, err := peer.New(address)
	if err != nil {
		return false, err
	}

	added := s.knownPeers.Add(p)
	if added {
		s.evHandler("state: AddKnownPeer: registered peer[%s]", p.Host)
	}

	return added, nil
}

// RetrieveKnownPeers returns the known peers ordered by address, excluding
// this node itself.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}
