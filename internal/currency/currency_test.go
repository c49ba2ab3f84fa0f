package currency

import "testing"

func TestEncodingUnitsPerDollar(t *testing.T) {
	if got := EncodingEsimAccess.UnitsPerDollar(); got != 10000 {
		t.Fatalf("esim-access units = %d, want 10000", got)
	}
	if got := EncodingPaddle.UnitsPerDollar(); got != 100 {
		t.Fatalf("paddle units = %d, want 100", got)
	}
}

func TestDollarsConversion(t *testing.T) {
	if got := EncodingEsimAccess.Dollars(100000); got != 10.0 {
		t.Fatalf("esim-access 100000 = %f dollars, want 10", got)
	}
	if got := EncodingPaddle.Dollars(100000); got != 1000.0 {
		t.Fatalf("paddle 100000 = %f dollars, want 1000", got)
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		amount int64
		enc    Encoding
		want   string
	}{
		{100000, EncodingEsimAccess, "$10.00"},
		{12345600, EncodingEsimAccess, "$1,234.56"},
		{1050, EncodingPaddle, "$10.50"},
		{0, EncodingEsimAccess, "$0.00"},
	}
	for _, tc := range cases {
		if got := Format(tc.amount, USD, tc.enc); got != tc.want {
			t.Fatalf("Format(%d, USD, %d) = %q, want %q", tc.amount, tc.enc, got, tc.want)
		}
	}
}

func TestFormatIDR(t *testing.T) {
	if got := Format(150000, IDR, EncodingEsimAccess); got != "Rp150.000" {
		t.Fatalf("Format IDR = %q, want Rp150.000", got)
	}
	// The encoding selector never applies to rupiah.
	if got := Format(150000, IDR, EncodingPaddle); got != "Rp150.000" {
		t.Fatalf("Format IDR paddle = %q, want Rp150.000", got)
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("EUR"); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
	code, err := Parse("IDR")
	if err != nil || code != IDR {
		t.Fatalf("Parse(IDR) = %v, %v", code, err)
	}
}
