package services

import (
	"math"
	"testing"
)

func TestParseEuropeanNumber_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect float64
	}{
		{"plain integer", "1500", 1500},
		{"comma decimal", "1500,75", 1500.75},
		{"dot thousands comma decimal", "1.500,75", 1500.75},
		{"millions", "1.250.000,00", 1250000},
		{"currency suffix stripped", "1.500,75 €", 1500.75},
		{"spaces stripped", " 2 500,50 ", 2500.5},
		{"negative", "-1.200,25", -1200.25},
		{"zero", "0", 0},
		{"bare comma decimal", ",5", 0.5},
		{"multiple dots no comma", "1.250.000", 1250000},
		{"single dot as decimal", "1500.75", 1500.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEuropeanNumber(tt.input)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("ParseEuropeanNumber(%q) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseEuropeanNumber_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"letters only", "abc"},
		{"currency sign only", "€"},
		{"lone minus", "-"},
		{"double comma", "1,2,3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEuropeanNumber(tt.input)
			if !math.IsNaN(got) {
				t.Errorf("ParseEuropeanNumber(%q) = %v, want NaN", tt.input, got)
			}
		})
	}
}

func TestFormatNumber_Values(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		minFrac int
		maxFrac int
		expect  string
	}{
		{"zero two decimals", 0, 2, 2, "0,00"},
		{"integer grouping", 1500, 0, 0, "1.500"},
		{"millions grouping", 1250000, 2, 2, "1.250.000,00"},
		{"decimals kept", 1500.75, 2, 2, "1.500,75"},
		{"trailing zeros trimmed to min", 1500.5, 0, 2, "1.500,5"},
		{"negative", -1200.25, 2, 2, "-1.200,25"},
		{"small", 7, 2, 2, "7,00"},
		{"rounding at max fraction", 0.005, 2, 2, "0,01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatNumber(tt.input, tt.minFrac, tt.maxFrac)
			if got != tt.expect {
				t.Errorf("FormatNumber(%v, %d, %d) = %q, want %q",
					tt.input, tt.minFrac, tt.maxFrac, got, tt.expect)
			}
		})
	}
}

func TestFormatNumber_NonFinite(t *testing.T) {
	if got := FormatNumber(math.NaN(), 2, 2); got != "-" {
		t.Errorf("FormatNumber(NaN) = %q, want %q", got, "-")
	}
	if got := FormatNumber(math.Inf(1), 2, 2); got != "-" {
		t.Errorf("FormatNumber(+Inf) = %q, want %q", got, "-")
	}
}

func TestFormatCurrency_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "0,00 €"},
		{"thousands", 1500.75, "1.500,75 €"},
		{"millions", 1250000, "1.250.000,00 €"},
		{"negative", -300, "-300,00 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrency(tt.input)
			if got != tt.expect {
				t.Errorf("FormatCurrency(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}

	if got := FormatCurrency(math.NaN()); got != "-" {
		t.Errorf("FormatCurrency(NaN) = %q, want %q", got, "-")
	}
}

func TestFormatCurrencyString_Placeholders(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"empty stays dash", "", "-"},
		{"dash stays dash", "-", "-"},
		{"unparseable stays dash", "n/a", "-"},
		{"amount formats", "1.500,75", "1.500,75 €"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCurrencyString(tt.input)
			if got != tt.expect {
				t.Errorf("FormatCurrencyString(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	values := []float64{0, 1, 999.99, 1500.75, 1250000, -42.5}
	for _, v := range values {
		formatted := FormatNumber(v, 2, 2)
		parsed := ParseEuropeanNumber(formatted)
		if math.Abs(parsed-v) > 0.005 {
			t.Errorf("round trip %v -> %q -> %v", v, formatted, parsed)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		base   float64
		expect string
	}{
		{"quarter", 2500, 10000, "25%"},
		{"full", 10000, 10000, "100%"},
		{"rounds", 3333, 10000, "33%"},
		{"zero base", 500, 0, "0%"},
		{"negative base", 500, -100, "0%"},
		{"over base", 15000, 10000, "150%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatPercentage(tt.amount, tt.base)
			if got != tt.expect {
				t.Errorf("FormatPercentage(%v, %v) = %q, want %q", tt.amount, tt.base, got, tt.expect)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		input  float64
		expect float64
	}{
		{1.006, 1.01},
		{1.004, 1.0},
		{-2.675, -2.67},
		{100, 100},
	}

	for _, tt := range tests {
		got := Round2(tt.input)
		if math.Abs(got-tt.expect) > 1e-9 {
			t.Errorf("Round2(%v) = %v, want %v", tt.input, got, tt.expect)
		}
	}
}
