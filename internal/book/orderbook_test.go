package book

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

var (
	alice = common.HexToAddress("0xAA00000000000000000000000000000000000000")
	bob   = common.HexToAddress("0xBB00000000000000000000000000000000000000")
	carol = common.HexToAddress("0xCC00000000000000000000000000000000000000")
)

func TestRestAndBestPrices(t *testing.T) {
	ob := New()
	ob.Rest(&Order{ID: "b1", User: alice, Side: Bid, Price: 100, Remaining: 1})
	ob.Rest(&Order{ID: "b2", User: alice, Side: Bid, Price: 110, Remaining: 1})
	ob.Rest(&Order{ID: "a1", User: bob, Side: Ask, Price: 200, Remaining: 1})
	ob.Rest(&Order{ID: "a2", User: bob, Side: Ask, Price: 190, Remaining: 1})

	if bid, ok := ob.BestBid(); !ok || bid != 110 {
		t.Errorf("BestBid = %d, %v; want 110, true", bid, ok)
	}
	if ask, ok := ob.BestAsk(); !ok || ask != 190 {
		t.Errorf("BestAsk = %d, %v; want 190, true", ask, ok)
	}
}

func TestMatch_FullTakerFill(t *testing.T) {
	ob := New()
	ob.Rest(&Order{ID: "maker", User: bob, Side: Ask, Price: 100, Remaining: 10})

	taker := &Order{User: alice, Side: Bid, Price: 100, Remaining: 4}
	fills := ob.Match(taker)

	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	if fills[0].Qty != 4 || fills[0].Price != 100 || fills[0].MakerFilled {
		t.Errorf("unexpected fill: %+v", fills[0])
	}
	if taker.Remaining != 0 {
		t.Errorf("taker.Remaining = %d, want 0", taker.Remaining)
	}

	maker, ok := ob.Lookup("maker")
	if !ok || maker.Remaining != 6 {
		t.Errorf("maker remaining = %v (ok=%v), want 6", maker, ok)
	}
}

func TestMatch_MakerFullyConsumedAcrossTwoMakers(t *testing.T) {
	ob := New()
	ob.Rest(&Order{ID: "m1", User: bob, Side: Ask, Price: 100, Remaining: 3})
	ob.Rest(&Order{ID: "m2", User: carol, Side: Ask, Price: 100, Remaining: 5})

	taker := &Order{User: alice, Side: Bid, Price: 100, Remaining: 6}
	fills := ob.Match(taker)

	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}
	if fills[0].Maker.ID != "m1" || !fills[0].MakerFilled || fills[0].Qty != 3 {
		t.Errorf("first fill wrong: %+v", fills[0])
	}
	if fills[1].Maker.ID != "m2" || fills[1].MakerFilled || fills[1].Qty != 3 {
		t.Errorf("second fill wrong: %+v", fills[1])
	}
	if taker.Remaining != 0 {
		t.Errorf("taker.Remaining = %d, want 0", taker.Remaining)
	}
	if _, ok := ob.Lookup("m1"); ok {
		t.Error("fully filled maker m1 should be gone from the book")
	}
	if m2, ok := ob.Lookup("m2"); !ok || m2.Remaining != 2 {
		t.Errorf("m2 remaining = %v (ok=%v), want 2", m2, ok)
	}
}

func TestMatch_NoCrossDoesNotFill(t *testing.T) {
	ob := New()
	ob.Rest(&Order{ID: "ask", User: bob, Side: Ask, Price: 100, Remaining: 5})

	taker := &Order{User: alice, Side: Bid, Price: 99, Remaining: 5}
	fills := ob.Match(taker)

	if len(fills) != 0 {
		t.Fatalf("got %d fills, want 0 (book must never cross, I5)", len(fills))
	}
	if taker.Remaining != 5 {
		t.Errorf("taker.Remaining = %d, want unchanged 5", taker.Remaining)
	}
}

func TestMatch_PriceTimePriority(t *testing.T) {
	ob := New()
	// Two asks at the same price; FIFO (I6) should hit the earlier-rested one first.
	ob.Rest(&Order{ID: "first", User: bob, Side: Ask, Price: 100, Remaining: 2})
	ob.Rest(&Order{ID: "second", User: carol, Side: Ask, Price: 100, Remaining: 2})

	taker := &Order{User: alice, Side: Bid, Price: 100, Remaining: 2}
	fills := ob.Match(taker)

	if len(fills) != 1 || fills[0].Maker.ID != "first" {
		t.Fatalf("expected the earlier-resting order to fill first, got %+v", fills)
	}
}

func TestCancel(t *testing.T) {
	ob := New()
	ob.Rest(&Order{ID: "o1", User: alice, Side: Bid, Price: 100, Remaining: 5})

	removed, ok := ob.Cancel("o1")
	if !ok {
		t.Fatal("cancel of a resting order should succeed")
	}
	if removed.Remaining != 5 {
		t.Errorf("removed.Remaining = %d, want 5", removed.Remaining)
	}
	if _, ok := ob.Lookup("o1"); ok {
		t.Error("cancelled order must not be resolvable by Lookup")
	}
	if _, ok := ob.BestBid(); ok {
		t.Error("emptied price level must not leave a stale best bid")
	}
}

func TestCancel_UnknownID(t *testing.T) {
	ob := New()
	if _, ok := ob.Cancel("nope"); ok {
		t.Error("cancelling an unknown id should report ok=false")
	}
}

func TestUserOrders(t *testing.T) {
	ob := New()
	ob.Rest(&Order{ID: "b1", User: alice, Side: Bid, Price: 100, Remaining: 1})
	ob.Rest(&Order{ID: "b2", User: bob, Side: Bid, Price: 105, Remaining: 1})
	ob.Rest(&Order{ID: "a1", User: alice, Side: Ask, Price: 200, Remaining: 1})

	got := ob.UserOrders(alice)
	if len(got) != 2 {
		t.Fatalf("got %d orders for alice, want 2", len(got))
	}
	for _, o := range got {
		if o.User != alice {
			t.Errorf("UserOrders leaked an order belonging to %s", o.User.Hex())
		}
	}
}
