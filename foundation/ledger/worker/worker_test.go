package worker_test

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/watermarkd/watermarkd/foundation/ledger/state"
	"github.com/watermarkd/watermarkd/foundation/ledger/worker"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestSignalBurstCollapse(t *testing.T) {
	t.Log("Given the need to collapse a burst of mining signals.")
	{
		t.Log("\tTest 0:\tWhen firing ten signals for one pending transaction.")
		{
			var operations int32
			var mined int32
			ev := func(v string, args ...any) {
				s := fmt.Sprintf(v, args...)
				if strings.Contains(s, "runMiningOperation: MINING: started") {
					atomic.AddInt32(&operations, 1)
				}
				if strings.Contains(s, "MineNextBlock: MINING: started") {
					atomic.AddInt32(&mined, 1)
				}
			}

			// The search at this difficulty takes long enough that the whole
			// burst lands while the first operation is still in flight.
			st, err := state.New(state.Config{
				Host:       "node1:9080",
				Difficulty: 5,
				EvHandler:  ev,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the state: %v", failed, err)
			}

			worker.Run(st, ev, time.Hour)
			defer st.Shutdown()

			if _, err := st.SubmitTransaction("alice", "bob", 1, nil); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}

			for i := 0; i < 10; i++ {
				st.Worker.SignalStartMining()
			}

			deadline := time.Now().Add(30 * time.Second)
			for st.RetrieveStats().ChainLength < 2 && time.Now().Before(deadline) {
				time.Sleep(10 * time.Millisecond)
			}

			if st.RetrieveStats().ChainLength != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould mine exactly one block, chain at %d.", failed, st.RetrieveStats().ChainLength)
			}
			t.Logf("\t%s\tTest 0:\tShould mine exactly one block.", success)

			// Let any queued signal run its empty-pool pass before counting.
			time.Sleep(250 * time.Millisecond)

			if n := atomic.LoadInt32(&mined); n != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould batch the pool in one mining pass, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould batch the pool in one mining pass.", success)

			// One active operation plus at most one queued behind it.
			if n := atomic.LoadInt32(&operations); n > 2 {
				t.Fatalf("\t%s\tTest 0:\tShould collapse the burst to at most two operations, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould collapse the burst to at most two operations.", success)
		}
	}
}

func TestShutdownCancelsMining(t *testing.T) {
	t.Log("Given the need to cancel an in-flight proof of work search.")
	{
		t.Log("\tTest 0:\tWhen shutting down during a search that can't finish.")
		{
			started := make(chan struct{}, 1)
			ev := func(v string, args ...any) {
				if strings.Contains(fmt.Sprintf(v, args...), "MineNextBlock: MINING: started") {
					select {
					case started <- struct{}{}:
					default:
					}
				}
			}

			// A difficulty this high can't be solved within the test, so the
			// search only ends if shutdown cancels it.
			st, err := state.New(state.Config{
				Host:       "node1:9080",
				Difficulty: 12,
				EvHandler:  ev,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct the state: %v", failed, err)
			}

			worker.Run(st, ev, time.Hour)

			if _, err := st.SubmitTransaction("alice", "bob", 1, nil); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			st.Worker.SignalStartMining()

			select {
			case <-started:
			case <-time.After(5 * time.Second):
				t.Fatalf("\t%s\tTest 0:\tShould start the mining operation.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould start the mining operation.", success)

			done := make(chan struct{})
			go func() {
				st.Shutdown()
				close(done)
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatalf("\t%s\tTest 0:\tShould cancel the search and finish the shutdown.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould cancel the search and finish the shutdown.", success)

			if st.RetrieveStats().ChainLength != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not append a block for a cancelled search.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould not append a block for a cancelled search.", success)
		}
	}
}
