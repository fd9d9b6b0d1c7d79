// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	v1 "github.com/watermarkd/watermarkd/business/web/v1"
	"github.com/watermarkd/watermarkd/foundation/ledger/state"
	"github.com/watermarkd/watermarkd/foundation/web"
)

// Handlers manages the set of node to node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Chain serves the full local chain with its length. This is the payload
// peers fetch during consensus resolution.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	pc := state.PeerChain{
		Length: len(chain),
		Chain:  chain,
	}

	return web.Respond(ctx, w, pc, http.StatusOK)
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.State.RetrieveLatestBlock()

	resp := struct {
		Host        string   `json:"host"`
		LatestIndex int      `json:"latest_index"`
		LatestHash  string   `json:"latest_hash"`
		KnownPeers  []string `json:"known_peers"`
	}{
		Host:        h.State.Host(),
		LatestIndex: latest.Index,
		LatestHash:  latest.Hash(),
	}

	for _, p := range h.State.RetrieveKnownPeers() {
		resp.KnownPeers = append(resp.KnownPeers, p.Host)
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Peers lists the known peer addresses.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var hosts []string
	for _, p := range h.State.RetrieveKnownPeers() {
		hosts = append(hosts, p.Host)
	}

	resp := struct {
		Peers []string `json:"peers"`
		Count int      `json:"count"`
	}{
		Peers: hosts,
		Count: len(hosts),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// RegisterPeer adds a peer address to the known peer set.
func (h Handlers) RegisterPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var reg struct {
		Address string `json:"address" validate:"required"`
	}
	if err := web.Decode(r, &reg); err != nil {
		return err
	}

	added, err := h.State.AddKnownPeer(reg.Address)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	h.Log.Infow("register peer", "traceid", v.TraceID, "address", reg.Address, "added", added)

	resp := struct {
		Status string `json:"status"`
		Added  bool   `json:"added"`
	}{
		Status: "peer registered",
		Added:  added,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Resolve runs a consensus resolution pass against the known peers and
// reports whether the local chain was replaced.
func (h Handlers) Resolve(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.ResolveConsensus(ctx)
	if err != nil {
		return err
	}

	resp := struct {
		Replaced bool `json:"replaced"`
		Length   int  `json:"length"`
	}{
		Replaced: replaced,
		Length:   h.State.RetrieveStats().ChainLength,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
