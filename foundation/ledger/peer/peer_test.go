package peer_test

import (
	"testing"

	"github.com/watermarkd/watermarkd/foundation/ledger/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestPeerNew(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		fails   bool
	}

	tt := []table{
		{name: "hostport", address: "node1.example.com:9080", host: "node1.example.com:9080"},
		{name: "url", address: "http://node2.example.com:9080", host: "node2.example.com:9080"},
		{name: "empty", address: "", fails: true},
		{name: "scheme-only", address: "http://", fails: true},
	}

	t.Log("Given the need to normalize peer addresses.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen parsing %q.", testID, tst.address)
			{
				p, err := peer.New(tst.address)
				if tst.fails {
					if err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject the address.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the address.", success, testID)
					continue
				}

				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould accept the address: %v", failed, testID, err)
				}
				if p.Host != tst.host {
					t.Fatalf("\t%s\tTest %d:\tShould normalize to %q, got %q.", failed, testID, tst.host, p.Host)
				}
				t.Logf("\t%s\tTest %d:\tShould normalize to %q.", success, testID, tst.host)
			}
		}
	}
}

func TestPeerSet(t *testing.T) {
	t.Log("Given the need to manage a deduplicated peer set.")
	{
		t.Log("\tTest 0:\tWhen adding the same peer twice.")
		{
			ps := peer.NewPeerSet()
			p, _ := peer.New("node1:9080")

			if !ps.Add(p) {
				t.Fatalf("\t%s\tTest 0:\tShould add a new peer.", failed)
			}
			if ps.Add(p) {
				t.Fatalf("\t%s\tTest 0:\tShould not add a duplicate peer.", failed)
			}
			if ps.Count() != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould count one peer, got %d.", failed, ps.Count())
			}
			t.Logf("\t%s\tTest 0:\tShould deduplicate peers.", success)
		}

		t.Log("\tTest 1:\tWhen copying the set.")
		{
			ps := peer.NewPeerSet()
			for _, addr := range []string{"node3:9080", "node1:9080", "node2:9080", "self:9080"} {
				p, _ := peer.New(addr)
				ps.Add(p)
			}

			peers := ps.Copy("self:9080")
			if len(peers) != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould exclude this node, got %d peers.", failed, len(peers))
			}
			t.Logf("\t%s\tTest 1:\tShould exclude this node.", success)

			want := []string{"node1:9080", "node2:9080", "node3:9080"}
			for i, p := range peers {
				if p.Host != want[i] {
					t.Fatalf("\t%s\tTest 1:\tShould order peers by address, got %q at %d.", failed, p.Host, i)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould order peers by address.", success)
		}
	}
}
