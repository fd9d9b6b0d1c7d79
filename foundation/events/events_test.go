package events_test

import (
	"testing"

	"github.com/watermarkd/watermarkd/foundation/events"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestEvents(t *testing.T) {
	t.Log("Given the need to fan node events out to registered clients.")
	{
		t.Log("\tTest 0:\tWhen sending to two registered clients.")
		{
			evts := events.New()
			ch1 := evts.Acquire("client1")
			ch2 := evts.Acquire("client2")

			evts.Send(events.NewEvent(events.KindMining, "block %d mined", 2))

			for _, ch := range []chan events.Event{ch1, ch2} {
				select {
				case e := <-ch:
					if e.Kind != events.KindMining {
						t.Fatalf("\t%s\tTest 0:\tShould deliver a %q event, got %q.", failed, events.KindMining, e.Kind)
					}
					if e.Message != "block 2 mined" {
						t.Fatalf("\t%s\tTest 0:\tShould format the message, got %q.", failed, e.Message)
					}
				default:
					t.Fatalf("\t%s\tTest 0:\tShould deliver the event to every client.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould deliver the event to every client.", success)
		}

		t.Log("\tTest 1:\tWhen a client is released.")
		{
			evts := events.New()
			ch := evts.Acquire("client1")

			if err := evts.Release("client1"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould release the client: %v", failed, err)
			}
			if _, open := <-ch; open {
				t.Fatalf("\t%s\tTest 1:\tShould close the client channel.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould close the client channel.", success)

			if err := evts.Release("client1"); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a second release.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a second release.", success)

			// A send after release must not panic on the closed channel.
			evts.Send(events.NewEvent(events.KindNode, "still running"))
			t.Logf("\t%s\tTest 1:\tShould keep sending after a release.", success)
		}
	}
}
