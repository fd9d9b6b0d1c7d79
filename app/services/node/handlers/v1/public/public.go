// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	v1 "github.com/watermarkd/watermarkd/business/web/v1"
	"github.com/watermarkd/watermarkd/foundation/events"
	"github.com/watermarkd/watermarkd/foundation/ledger/state"
	"github.com/watermarkd/watermarkd/foundation/web"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// SubmitTransaction adds a new transaction to the pending pool and reports
// the block index the transaction is expected to land in.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return err
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "sender", st.Sender, "receiver", st.Receiver, "amount", st.Amount, "watermark", st.Metadata != nil)

	predicted, err := h.State.SubmitTransaction(st.Sender, st.Receiver, st.Amount, st.Metadata)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := submitResult{
		Status:         "transaction added to the pool",
		PredictedBlock: predicted,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// SignalMining signals the background worker to mine the pending pool into
// a new block. Burst signals collapse into a single mining operation.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns a read-only snapshot of the full chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	info := chainInfo{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, info, http.StatusOK)
}

// ChainValid self-audits the local chain.
func (h Handlers) ChainValid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid bool `json:"valid"`
	}{
		Valid: h.State.Audit(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Stats returns the observational chain and pool statistics.
func (h Handlers) Stats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveStats(), http.StatusOK)
}

// Sample is a trivial endpoint used by stress drivers for liveness probing
// of the public API.
func (h Handlers) Sample(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Status string `json:"status"`
	}{
		Status: "ok",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("websocket open", "traceid", v.TraceID, "path", r.URL.Path, "remoteaddr", r.RemoteAddr)

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case ev, wd := <-ch:
			if !wd {
				return nil
			}

			msg, err := json.Marshal(ev)
			if err != nil {
				return err
			}

			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}
