// Package worker implements the background mining and consensus resolution
// workflows for the ledger node.
package worker

import (
	"sync"
	"time"

	"github.com/watermarkd/watermarkd/foundation/ledger/state"
)

// defaultResolveInterval represents the interval for polling the known
// peers and reconciling the local chain against the longest valid one.
const defaultResolveInterval = time.Minute

// Worker manages the mining and consensus workflows. All mining triggers
// are funneled through a single buffered signal channel into one dedicated
// goroutine, so a burst of triggers collapses into at most one queued
// mining operation instead of an unbounded set of concurrent miners.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background goroutines.
func Run(st *state.State, evHandler state.EventHandler, resolveInterval time.Duration) {
	if resolveInterval <= 0 {
		resolveInterval = defaultResolveInterval
	}

	w := Worker{
		state:        st,
		ticker:       time.NewTicker(resolveInterval),
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		evHandler:    evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
		w.consensusOperations,
	}

	// Set waitgroup to match the number of goroutines we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the goroutines are up and
	// running.
	hasStarted := make(chan bool)

	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.ticker.Stop()
	w.SignalCancelMining()

	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the goroutine executing the mining operation
// to stop.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
