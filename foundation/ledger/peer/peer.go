// Package peer maintains the set of known peer nodes whose chains can be
// polled during consensus resolution.
package peer

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"sync"
)

// ErrInvalidAddress is returned when a peer address can't be reduced to a
// host:port network location.
var ErrInvalidAddress = errors.New("invalid peer address")

// Peer represents information about a node in the network. A peer owns no
// data beyond its address.
type Peer struct {
	Host string
}

// New constructs a peer from a network location. Full URLs are accepted and
// reduced to their host:port.
func New(address string) (Peer, error) {
	host := strings.TrimSpace(address)
	if host == "" {
		return Peer{}, ErrInvalidAddress
	}

	if strings.Contains(host, "//") {
		u, err := url.Parse(host)
		if err != nil || u.Host == "" {
			return Peer{}, ErrInvalidAddress
		}
		host = u.Host
	}

	return Peer{Host: host}, nil
}

// Match validates if the specified host matches this peer.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// =============================================================================

// PeerSet represents the data representation to maintain a deduplicated set
// of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new peer to the set, reporting whether it was not already
// known.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[peer]; exists {
		return false
	}

	ps.set[peer] = struct{}{}
	return true
}

// Remove removes a peer from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Count returns the number of known peers.
func (ps *PeerSet) Count() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns the known peers, excluding the specified host, ordered by
// address. The ordering makes iteration over the set reproducible, which the
// consensus tie-break depends on.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}
