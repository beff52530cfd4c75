package units

import (
	"math/big"
	"testing"
)

func TestFormat(t *testing.T) {
	oneBTC := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	tests := []struct {
		name     string
		raw      *big.Int
		decimals int
		places   int
		want     string
	}{
		{"one btc", oneBTC, 18, 8, "1.00000000"},
		{"half btc", new(big.Int).Div(oneBTC, big.NewInt(2)), 18, 8, "0.50000000"},
		{"zero", big.NewInt(0), 18, 8, "0.00000000"},
		{"dust below display precision", big.NewInt(1), 18, 8, "0.00000000"},
		{"usdc six decimals", big.NewInt(1234560), 6, 2, "1.23"},
		{"usdc exact", big.NewInt(5000000), 6, 2, "5.00"},
		{"no places", big.NewInt(42), 0, 0, "42"},
		{"nil raw", nil, 18, 8, "0.00000000"},
	}

	for _, tt := range tests {
		got := Format(tt.raw, tt.decimals, tt.places)
		if got != tt.want {
			t.Fatalf("%s: Format=%q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	oneBTC := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

	got, err := Parse("1", 18)
	if err != nil || got.Cmp(oneBTC) != 0 {
		t.Fatalf("Parse(1)=%v err=%v, want %v", got, err, oneBTC)
	}

	got, err = Parse("0.5", 18)
	want := new(big.Int).Div(oneBTC, big.NewInt(2))
	if err != nil || got.Cmp(want) != 0 {
		t.Fatalf("Parse(0.5)=%v err=%v, want %v", got, err, want)
	}

	got, err = Parse("1.23", 6)
	if err != nil || got.Cmp(big.NewInt(1230000)) != 0 {
		t.Fatalf("Parse(1.23, 6)=%v err=%v", got, err)
	}
}

func TestParseRejects(t *testing.T) {
	bad := []struct {
		amount   string
		decimals int
	}{
		{"", 18},
		{"-1", 18},
		{"abc", 18},
		{"1.2345678", 6}, // more digits than scale
		{"1.2.3", 18},
	}

	for _, tt := range bad {
		if _, err := Parse(tt.amount, tt.decimals); err == nil {
			t.Fatalf("Parse(%q, %d): expected error", tt.amount, tt.decimals)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	raw, err := Parse("0.12345678", 18)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := Format(raw, 18, 8); got != "0.12345678" {
		t.Fatalf("round trip=%q", got)
	}
}
