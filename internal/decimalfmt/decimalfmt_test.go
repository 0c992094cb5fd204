package decimalfmt

import "testing"

func TestParseBTC(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "1", want: 100_000_000},
		{in: "0.5", want: 50_000_000},
		{in: "0.00000001", want: 1},
		{in: "-1", wantErr: true},
		{in: "0.000000001", wantErr: true}, // 9 fractional digits
		{in: "not-a-number", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBTC(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseBTC(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseBTC(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBTC(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatBTC_RoundTrip(t *testing.T) {
	got, err := ParseBTC("1.23456789")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s := FormatBTC(got); s != "1.23456789" {
		t.Errorf("FormatBTC round-trip = %q, want 1.23456789", s)
	}
}

func TestParseUSDC_FractionalDigitLimit(t *testing.T) {
	if _, err := ParseUSDC("1.1234567"); err == nil {
		t.Error("expected error for more than 6 fractional digits")
	}
	v, err := ParseUSDC("1.123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1_123_456 {
		t.Errorf("ParseUSDC = %d, want 1123456", v)
	}
}

func TestParsePrice_Overflow(t *testing.T) {
	if _, err := ParsePrice("99999999999999999999"); err == nil {
		t.Error("expected overflow error for a price exceeding uint64 range")
	}
}
