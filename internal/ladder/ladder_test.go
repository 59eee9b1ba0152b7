package ladder

import "testing"

func TestRound_Idempotent(t *testing.T) {
	l := Default()
	for v := 1; v <= 250_000; v += 7 {
		r := l.Round(v)
		if rr := l.Round(r); rr != r {
			t.Fatalf("Round not idempotent at %d: Round(%d) = %d, Round(%d) = %d", v, v, r, r, rr)
		}
	}
}

func TestRound_Values(t *testing.T) {
	l := Default()
	tests := []struct {
		in   int
		want int
	}{
		{0, 50},
		{10, 50},
		{50, 50},
		{160, 150},
		{180, 200},
		{900, 900},
		{990, 1000},
		{1_020, 1_000},
		{1_060, 1_100},
		{9_000, 9_000},
		{10_100, 10_000},
		{10_150, 10_250},
		{12_500, 12_500},
		{45_000, 45_000},
		{62_500, 62_500},
		{100_400, 100_000},
		{100_600, 101_000},
	}
	for _, tt := range tests {
		if got := l.Round(tt.in); got != tt.want {
			t.Errorf("Round(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRound_OrderingProperty(t *testing.T) {
	l := Default()
	// For sell prices on the ladder at or above 1000, the derived buy and
	// bin prices must bracket the sell price.
	for sell := 1_000; sell <= 200_000; sell = l.Increment(sell) {
		buy := l.Round(int(0.9 * float64(sell)))
		bin := l.Round(int(1.25 * float64(sell)))
		if !(buy < sell) {
			t.Errorf("sell %d: buy %d not below sell", sell, buy)
		}
		if !(sell < bin) {
			t.Errorf("sell %d: bin %d not above sell", sell, bin)
		}
	}

	// The worked example from the pricing rules.
	sell := 10_000
	if buy := l.Round(int(0.9 * float64(sell))); buy != 9_000 {
		t.Errorf("Round(0.9*10000) = %d, want 9000", buy)
	}
	if bin := l.Round(int(1.25 * float64(sell))); bin != 12_500 {
		t.Errorf("Round(1.25*10000) = %d, want 12500", bin)
	}
}

func TestIncrement(t *testing.T) {
	l := Default()
	tests := []struct {
		in   int
		want int
	}{
		{0, 50},
		{40, 50},
		{50, 100},
		{950, 1_000},
		{999, 1_000},
		{1_000, 1_100},
		{1_050, 1_100},
		{9_900, 10_000},
		{10_000, 10_250},
		{49_750, 50_000},
		{50_000, 50_500},
		{100_000, 101_000},
		{150_000, 151_000},
	}
	for _, tt := range tests {
		if got := l.Increment(tt.in); got != tt.want {
			t.Errorf("Increment(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIncrement_StrictlyGreater(t *testing.T) {
	l := Default()
	for v := 0; v <= 120_000; v += 13 {
		next := l.Increment(v)
		if next <= v {
			t.Fatalf("Increment(%d) = %d, not strictly greater", v, next)
		}
		if l.Round(next) != next {
			t.Fatalf("Increment(%d) = %d is not a ladder point", v, next)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name  string
		tiers []Tier
	}{
		{"empty", nil},
		{"zero step", []Tier{{Ceiling: 0, Step: 0}}},
		{"bounded final tier", []Tier{{Ceiling: 100, Step: 10}}},
		{"descending ceilings", []Tier{{Ceiling: 100, Step: 10}, {Ceiling: 50, Step: 10}, {Ceiling: 0, Step: 10}}},
		{"boundary off grid", []Tier{{Ceiling: 105, Step: 10}, {Ceiling: 0, Step: 50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.tiers); err == nil {
				t.Errorf("New(%v) expected error, got nil", tt.tiers)
			}
		})
	}

	if _, err := New([]Tier{{Ceiling: 1_000, Step: 50}, {Ceiling: 0, Step: 100}}); err != nil {
		t.Errorf("New(valid) unexpected error: %v", err)
	}
}
