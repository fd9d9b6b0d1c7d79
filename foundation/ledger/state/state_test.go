package state_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/watermarkd/watermarkd/foundation/ledger"
	"github.com/watermarkd/watermarkd/foundation/ledger/state"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// newTestState constructs a node state with no peers, no metrics and a low
// difficulty so the proof of work completes quickly.
func newTestState(t *testing.T, host string) *state.State {
	t.Helper()

	st, err := state.New(state.Config{
		Host:       host,
		Difficulty: 1,
		EvHandler:  t.Logf,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	return st
}

func TestSubmitTransaction(t *testing.T) {
	t.Log("Given the need to accept transactions into the pending pool.")
	{
		t.Log("\tTest 0:\tWhen submitting a valid transaction.")
		{
			st := newTestState(t, "node1:9080")

			predicted, err := st.SubmitTransaction("alice", "bob", 1, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept the transaction.", success)

			if predicted != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould predict block 2 above the genesis block, got %d.", failed, predicted)
			}
			t.Logf("\t%s\tTest 0:\tShould predict block 2 above the genesis block.", success)

			stats := st.RetrieveStats()
			if stats.PendingTransactions != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould report one pending transaction, got %d.", failed, stats.PendingTransactions)
			}
			if stats.ChainLength != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould not grow the chain on submission, got length %d.", failed, stats.ChainLength)
			}
			t.Logf("\t%s\tTest 0:\tShould hold the transaction pending without growing the chain.", success)
		}

		t.Log("\tTest 1:\tWhen submitting a malformed transaction.")
		{
			st := newTestState(t, "node1:9080")

			if _, err := st.SubmitTransaction("alice", "bob", 0, nil); !errors.Is(err, ledger.ErrInvalidAmount) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a zero amount, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a zero amount.", success)

			if st.RetrieveStats().PendingTransactions != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the pool untouched.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould leave the pool untouched.", success)
		}
	}
}

func TestMineNextBlock(t *testing.T) {
	t.Log("Given the need to batch the pending pool into a mined block.")
	{
		t.Log("\tTest 0:\tWhen mining with three pending transactions.")
		{
			st := newTestState(t, "node1:9080")

			senders := []string{"alice", "bob", "carol"}
			for _, sender := range senders {
				if _, err := st.SubmitTransaction(sender, "dave", 1, nil); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould accept transaction from %q: %v", failed, sender, err)
				}
			}

			block, err := st.MineNextBlock(context.Background())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould mine a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould mine a block.", success)

			if block.Index != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould produce block 2, got %d.", failed, block.Index)
			}
			if len(block.Transactions) != len(senders) {
				t.Fatalf("\t%s\tTest 0:\tShould batch all %d transactions, got %d.", failed, len(senders), len(block.Transactions))
			}
			for i, sender := range senders {
				if block.Transactions[i].Sender != sender {
					t.Fatalf("\t%s\tTest 0:\tShould keep submission order, got %q at %d.", failed, block.Transactions[i].Sender, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould batch all transactions in submission order.", success)

			stats := st.RetrieveStats()
			if stats.PendingTransactions != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould empty the pool, got %d pending.", failed, stats.PendingTransactions)
			}
			if stats.ChainLength != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould grow the chain to 2, got %d.", failed, stats.ChainLength)
			}
			t.Logf("\t%s\tTest 0:\tShould empty the pool and grow the chain.", success)

			if !st.Audit() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the chain valid.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the chain valid.", success)
		}

		t.Log("\tTest 1:\tWhen mining with an empty pool.")
		{
			st := newTestState(t, "node1:9080")

			if _, err := st.MineNextBlock(context.Background()); !errors.Is(err, state.ErrNoTransactions) {
				t.Fatalf("\t%s\tTest 1:\tShould refuse to mine an empty block, got %v.", failed, err)
			}
			if st.RetrieveStats().ChainLength != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain untouched.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould refuse to mine an empty block.", success)
		}

		t.Log("\tTest 2:\tWhen mining consecutive blocks.")
		{
			st := newTestState(t, "node1:9080")

			for i := 0; i < 3; i++ {
				if _, err := st.SubmitTransaction("alice", "bob", 1, nil); err != nil {
					t.Fatalf("\t%s\tTest 2:\tShould accept the transaction: %v", failed, err)
				}
				if _, err := st.MineNextBlock(context.Background()); err != nil {
					t.Fatalf("\t%s\tTest 2:\tShould mine block %d: %v", failed, i+2, err)
				}
			}

			chain := st.RetrieveChain()
			if len(chain) != 4 {
				t.Fatalf("\t%s\tTest 2:\tShould grow the chain to 4 blocks, got %d.", failed, len(chain))
			}
			if !st.IsChainValid(chain) {
				t.Fatalf("\t%s\tTest 2:\tShould keep every block linked and proven.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould keep every block linked and proven.", success)
		}
	}
}

func TestConcurrentReads(t *testing.T) {
	t.Log("Given the need for display reads to run safely alongside writes.")
	{
		t.Log("\tTest 0:\tWhen many goroutines read while blocks are mined.")
		{
			st := newTestState(t, "node1:9080")

			if _, err := st.SubmitTransaction("alice", "bob", 1, nil); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
			}
			if _, err := st.MineNextBlock(context.Background()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould mine a block: %v", failed, err)
			}

			var wg sync.WaitGroup

			// Readers hammer the top of chain and the stats snapshot.
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						if st.RetrieveLatestBlock().Index < 2 {
							t.Errorf("\t%s\tTest 0:\tShould never observe a chain below height 2.", failed)
							return
						}
						st.RetrieveStats()
					}
				}()
			}

			// A writer appends blocks concurrently with the readers.
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 3; i++ {
					if _, err := st.SubmitTransaction("carol", "dave", 1, nil); err != nil {
						t.Errorf("\t%s\tTest 0:\tShould accept the transaction: %v", failed, err)
						return
					}
					if _, err := st.MineNextBlock(context.Background()); err != nil {
						t.Errorf("\t%s\tTest 0:\tShould mine a block: %v", failed, err)
						return
					}
				}
			}()

			wg.Wait()

			if st.RetrieveLatestBlock().Index != 5 {
				t.Fatalf("\t%s\tTest 0:\tShould finish with the chain at height 5, got %d.", failed, st.RetrieveLatestBlock().Index)
			}
			t.Logf("\t%s\tTest 0:\tShould serve consistent reads alongside writes.", success)
		}
	}
}
