package money

import "testing"

func TestCost_Basic(t *testing.T) {
	// 1 BTC at 50,000 USDC: 50_000_000_000 micro-USDC * 100_000_000 sats / 10^8
	got, err := Cost(50_000_000_000, SatsPerBTC)
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if got != 50_000_000_000 {
		t.Errorf("Cost = %d, want 50000000000", got)
	}
}

func TestCost_Truncates(t *testing.T) {
	// price=3, qty=7: 21 / 10^8 floors to 0
	got, err := Cost(3, 7)
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if got != 0 {
		t.Errorf("Cost(3, 7) = %d, want 0", got)
	}
}

func TestCost_TruncationIsNotAdditive(t *testing.T) {
	// Demonstrates the non-additivity the doc comment warns about: cost
	// split across two trades can differ from cost of the combined quantity.
	const price = 100_000_003
	a, err := Cost(price, 50_000_000)
	if err != nil {
		t.Fatalf("Cost a: %v", err)
	}
	b, err := Cost(price, 50_000_000)
	if err != nil {
		t.Fatalf("Cost b: %v", err)
	}
	combined, err := Cost(price, 100_000_000)
	if err != nil {
		t.Fatalf("Cost combined: %v", err)
	}
	if a+b == combined {
		t.Skip("this particular price/qty pair doesn't exhibit truncation drift")
	}
	if diff := int64(combined) - int64(a+b); diff > 1 || diff < -1 {
		t.Errorf("split-cost drift = %d, want at most 1", diff)
	}
}

func TestCost_Overflow(t *testing.T) {
	_, err := Cost(^uint64(0), ^uint64(0))
	if err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestCost_Zero(t *testing.T) {
	got, err := Cost(0, SatsPerBTC)
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if got != 0 {
		t.Errorf("Cost(0, q) = %d, want 0", got)
	}
}
