package worker

import "context"

// consensusOperations periodically reconciles the local chain against the
// known peers using the longest-chain rule.
func (w *Worker) consensusOperations() {
	w.evHandler("worker: consensusOperations: G started")
	defer w.evHandler("worker: consensusOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runConsensusOperation()
			}
		case <-w.shut:
			w.evHandler("worker: consensusOperations: received shut signal")
			return
		}
	}
}

// runConsensusOperation performs one resolution pass. Unavailable peers are
// skipped without retry or backoff; the skip shows up in the event stream.
func (w *Worker) runConsensusOperation() {
	w.evHandler("worker: runConsensusOperation: started")
	defer w.evHandler("worker: runConsensusOperation: completed")

	replaced, err := w.state.ResolveConsensus(context.Background())
	if err != nil {
		w.evHandler("worker: runConsensusOperation: ERROR: %s", err)
		return
	}

	if replaced {
		w.evHandler("worker: runConsensusOperation: local chain replaced by longer peer chain")
	}
}
