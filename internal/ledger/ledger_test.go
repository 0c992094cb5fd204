package ledger

import "testing"

func TestInitializeUser_ZeroedBalances(t *testing.T) {
	l := New()
	u := l.InitializeUser()

	if !l.Exists(u) {
		t.Fatal("freshly initialized user does not exist")
	}
	snap, ok := l.Snapshot(u)
	if !ok {
		t.Fatal("snapshot missing for freshly initialized user")
	}
	for _, asset := range Assets {
		bal := snap[asset]
		if bal.Available != 0 || bal.Locked != 0 {
			t.Errorf("asset %s not zeroed: %+v", asset, bal)
		}
	}
}

func TestDeposit(t *testing.T) {
	l := New()
	u := l.InitializeUser()

	if err := l.Deposit(u, BTC, 100); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	snap, _ := l.Snapshot(u)
	if snap[BTC].Available != 100 {
		t.Errorf("available = %d, want 100", snap[BTC].Available)
	}
}

func TestDeposit_UnknownUser(t *testing.T) {
	l := New()
	var stranger UserID
	if err := l.Deposit(stranger, BTC, 1); err == nil {
		t.Fatal("expected error depositing to an unknown user")
	}
}

func TestDeposit_Overflow(t *testing.T) {
	l := New()
	u := l.InitializeUser()
	if err := l.Deposit(u, BTC, ^uint64(0)); err != nil {
		t.Fatalf("first deposit failed: %v", err)
	}
	if err := l.Deposit(u, BTC, 1); err == nil {
		t.Fatal("expected overflow error on second deposit")
	}
}

func TestLockAndUnlock(t *testing.T) {
	l := New()
	u := l.InitializeUser()
	_ = l.Deposit(u, USDC, 1000)

	if err := l.Lock(u, USDC, 400); err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	snap, _ := l.Snapshot(u)
	if snap[USDC].Available != 600 || snap[USDC].Locked != 400 {
		t.Errorf("after lock: %+v", snap[USDC])
	}

	l.Unlock(u, USDC, 150)
	snap, _ = l.Snapshot(u)
	if snap[USDC].Available != 750 || snap[USDC].Locked != 250 {
		t.Errorf("after unlock: %+v", snap[USDC])
	}
}

func TestLock_InsufficientFunds(t *testing.T) {
	l := New()
	u := l.InitializeUser()
	_ = l.Deposit(u, USDC, 100)

	if err := l.Lock(u, USDC, 200); err == nil {
		t.Fatal("expected insufficient-funds error")
	}
	snap, _ := l.Snapshot(u)
	if snap[USDC].Available != 100 || snap[USDC].Locked != 0 {
		t.Errorf("a failed lock must not mutate balances, got %+v", snap[USDC])
	}
}

func TestCreditAvailableAndDebitLocked(t *testing.T) {
	l := New()
	u := l.InitializeUser()
	_ = l.Deposit(u, BTC, 10)
	_ = l.Lock(u, BTC, 10)

	l.DebitLocked(u, BTC, 4)
	l.CreditAvailable(u, USDC, 999)

	snap, _ := l.Snapshot(u)
	if snap[BTC].Locked != 6 {
		t.Errorf("locked BTC = %d, want 6", snap[BTC].Locked)
	}
	if snap[USDC].Available != 999 {
		t.Errorf("available USDC = %d, want 999", snap[USDC].Available)
	}
}

func TestSnapshot_IsIsolated(t *testing.T) {
	l := New()
	u := l.InitializeUser()
	_ = l.Deposit(u, BTC, 5)

	snap, _ := l.Snapshot(u)
	snap[BTC] = AssetBalance{Available: 999}

	fresh, _ := l.Snapshot(u)
	if fresh[BTC].Available != 5 {
		t.Errorf("mutating a snapshot leaked into live state: %+v", fresh[BTC])
	}
}
