package state_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/watermarkd/watermarkd/foundation/ledger/state"
)

// buildPeerChain mines n blocks on a throwaway node, tagging every block
// with the given sender so chains from different peers can be told apart.
func buildPeerChain(t *testing.T, n int, sender string) state.PeerChain {
	t.Helper()

	st := newTestState(t, "builder:9080")
	for i := 0; i < n; i++ {
		_, err := st.SubmitTransaction(sender, "receiver", 1, nil)
		require.NoError(t, err)
		_, err = st.MineNextBlock(context.Background())
		require.NoError(t, err)
	}

	chain := st.RetrieveChain()
	return state.PeerChain{Length: len(chain), Chain: chain}
}

// servePeerChain stands up a peer node that answers the chain query with a
// fixed payload.
func servePeerChain(t *testing.T, pc state.PeerChain) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/node/chain", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(pc))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestResolveConsensusAdoptsLongerChain(t *testing.T) {
	t.Log("Given the need to adopt a strictly longer valid peer chain.")
	{
		st := newTestState(t, "local:9080")

		srv := servePeerChain(t, buildPeerChain(t, 3, "peerA"))
		_, err := st.AddKnownPeer(srv.URL)
		require.NoError(t, err)

		replaced, err := st.ResolveConsensus(context.Background())
		require.NoError(t, err)
		require.True(t, replaced, "the longer peer chain should be adopted")

		stats := st.RetrieveStats()
		require.Equal(t, 4, stats.ChainLength)
		require.True(t, st.Audit(), "the adopted chain should validate locally")

		t.Logf("\t%s\tShould adopt the longer valid peer chain.", success)
	}
}

func TestResolveConsensusKeepsLocalChain(t *testing.T) {
	t.Log("Given the need to keep the local chain against weaker peers.")
	{
		t.Log("\tTest 0:\tWhen every peer chain is the same length or shorter.")
		{
			st := newTestState(t, "local:9080")
			_, err := st.SubmitTransaction("alice", "bob", 1, nil)
			require.NoError(t, err)
			_, err = st.MineNextBlock(context.Background())
			require.NoError(t, err)
			localTop := st.RetrieveLatestBlock()

			equal := servePeerChain(t, buildPeerChain(t, 1, "peerA"))
			shorter := servePeerChain(t, buildPeerChain(t, 0, "peerB"))
			for _, srv := range []*httptest.Server{equal, shorter} {
				_, err := st.AddKnownPeer(srv.URL)
				require.NoError(t, err)
			}

			replaced, err := st.ResolveConsensus(context.Background())
			require.NoError(t, err)
			require.False(t, replaced, "an equal or shorter chain should never replace the local one")
			require.Equal(t, localTop, st.RetrieveLatestBlock())

			t.Logf("\t%s\tTest 0:\tShould keep the local chain.", success)
		}

		t.Log("\tTest 1:\tWhen the longer peer chain is invalid.")
		{
			st := newTestState(t, "local:9080")

			pc := buildPeerChain(t, 3, "peerA")
			pc.Chain[2].Transactions[0].Amount = 999

			srv := servePeerChain(t, pc)
			_, err := st.AddKnownPeer(srv.URL)
			require.NoError(t, err)

			replaced, err := st.ResolveConsensus(context.Background())
			require.NoError(t, err)
			require.False(t, replaced, "a tampered chain must be discarded")
			require.Equal(t, 1, st.RetrieveStats().ChainLength)

			t.Logf("\t%s\tTest 1:\tShould discard the tampered chain.", success)
		}
	}
}

func TestResolveConsensusSkipsDeadPeer(t *testing.T) {
	t.Log("Given the need to survive an unreachable peer.")
	{
		st := newTestState(t, "local:9080")

		dead := httptest.NewServer(http.NotFoundHandler())
		deadURL := dead.URL
		dead.Close()
		_, err := st.AddKnownPeer(deadURL)
		require.NoError(t, err)

		live := servePeerChain(t, buildPeerChain(t, 2, "peerA"))
		_, err = st.AddKnownPeer(live.URL)
		require.NoError(t, err)

		replaced, err := st.ResolveConsensus(context.Background())
		require.NoError(t, err)
		require.True(t, replaced, "the live peer's longer chain should still be adopted")
		require.Equal(t, 3, st.RetrieveStats().ChainLength)

		t.Logf("\t%s\tShould skip the dead peer and adopt from the live one.", success)
	}
}

func TestResolveConsensusTieBreak(t *testing.T) {
	t.Log("Given the need for a deterministic tie-break between peers.")
	{
		st := newTestState(t, "local:9080")

		srvA := servePeerChain(t, buildPeerChain(t, 2, "peerA"))
		srvB := servePeerChain(t, buildPeerChain(t, 2, "peerB"))
		_, err := st.AddKnownPeer(srvA.URL)
		require.NoError(t, err)
		_, err = st.AddKnownPeer(srvB.URL)
		require.NoError(t, err)

		// Peers are visited in address order, so the equally-long chain from
		// the smaller address wins.
		wantSender := "peerA"
		if strings.TrimPrefix(srvB.URL, "http://") < strings.TrimPrefix(srvA.URL, "http://") {
			wantSender = "peerB"
		}

		replaced, err := st.ResolveConsensus(context.Background())
		require.NoError(t, err)
		require.True(t, replaced)

		chain := st.RetrieveChain()
		require.Len(t, chain, 3)
		require.Equal(t, wantSender, chain[1].Transactions[0].Sender)

		t.Logf("\t%s\tShould adopt the chain from the smallest peer address.", success)
	}
}
