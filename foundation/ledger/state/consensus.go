package state

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/watermarkd/watermarkd/foundation/ledger"
	"github.com/watermarkd/watermarkd/foundation/ledger/peer"
)

// PeerChain is the payload a node reports for its chain. It is also what
// the private API serves to other nodes.
type PeerChain struct {
	Length int            `json:"length"`
	Chain  []ledger.Block `json:"chain"`
}

// ResolveConsensus applies the longest-chain rule: it polls every known
// peer for its chain and, among the peers whose chain is strictly longer
// than the local one and passes validation, adopts the longest. It reports
// true iff the local chain was replaced.
//
// Peer fetches run concurrently with bounded per-peer timeouts and without
// the mining lock, so an unreachable peer can't stall local mining. A peer
// that errors is skipped, never fatal to the pass. Ties between
// equally-longest valid candidates break to the smallest peer address.
func (s *State) ResolveConsensus(ctx context.Context) (bool, error) {
	s.evHandler("state: ResolveConsensus: started")
	defer s.evHandler("state: ResolveConsensus: completed")

	localLength := s.RetrieveStats().ChainLength
	peers := s.RetrieveKnownPeers()

	// Poll every peer concurrently. Results are kept positionally so the
	// selection below walks peers in address order regardless of which
	// fetch finished first.
	chains := make([]PeerChain, len(peers))
	var g errgroup.Group
	for i, pr := range peers {
		i, pr := i, pr
		g.Go(func() error {
			pc, err := s.NetRequestPeerChain(ctx, pr)
			if err != nil {
				s.evHandler("state: ResolveConsensus: peer[%s] unavailable, skipping: %s", pr.Host, err)
				return nil
			}
			chains[i] = pc
			return nil
		})
	}
	g.Wait()

	var candidate []ledger.Block
	candidateLength := localLength
	for i, pc := range chains {
		if pc.Length <= candidateLength || len(pc.Chain) != pc.Length {
			continue
		}
		if !s.IsChainValid(pc.Chain) {
			s.evHandler("state: ResolveConsensus: peer[%s] chain invalid, discarding", peers[i].Host)
			continue
		}

		candidate = pc.Chain
		candidateLength = pc.Length
		s.evHandler("state: ResolveConsensus: peer[%s] candidate length[%d]", peers[i].Host, pc.Length)
	}

	if candidate == nil {
		return false, nil
	}

	// Take the mining lock only for the swap, and re-check the candidate
	// is still strictly longer: a local mining operation may have appended
	// blocks while the peers were being polled.
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(candidate) <= s.ledger.Height() {
		s.evHandler("state: ResolveConsensus: candidate no longer ahead, keeping local chain")
		return false, nil
	}

	s.ledger.Replace(candidate)
	s.evHandler("state: ResolveConsensus: chain replaced: length[%d]", len(candidate))

	return true, nil
}

// NetRequestPeerChain asks the specified peer for its full chain and
// reported length.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) (PeerChain, error) {
	url := fmt.Sprintf("http://%s/v1/node/chain", pr.Host)

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return PeerChain{}, err
	}
	if resp.StatusCode() != 200 {
		return PeerChain{}, fmt.Errorf("peer %s responded %d", pr.Host, resp.StatusCode())
	}

	var pc PeerChain
	if err := json.Unmarshal(resp.Body(), &pc); err != nil {
		return PeerChain{}, fmt.Errorf("decoding chain from peer %s: %w", pr.Host, err)
	}

	return pc, nil
}
