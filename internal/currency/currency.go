package currency

import "fmt"

// Code identifies a supported settlement currency.
type Code string

const (
	// USD prices are stored as integers in one of two encodings (see Encoding).
	USD Code = "USD"
	// IDR has no sub-unit; amounts are whole rupiah.
	IDR Code = "IDR"
)

// Valid reports whether the code is one of the supported currencies.
func (c Code) Valid() bool {
	return c == USD || c == IDR
}

// Parse normalises a currency string into a Code.
func Parse(value string) (Code, error) {
	switch Code(value) {
	case USD:
		return USD, nil
	case IDR:
		return IDR, nil
	default:
		return "", fmt.Errorf("unsupported currency %q", value)
	}
}

// Encoding selects the integer representation used for USD amounts. The two
// encodings are incompatible and must never be mixed without an explicit
// conversion: package prices, schedule overrides, and coupon values use the
// eSIM-access encoding (10 000 units per dollar) while order records written
// by the payment provider use standard cents (100 units per dollar).
type Encoding int

const (
	// EncodingEsimAccess is the catalog encoding: amount / 10000 = dollars.
	EncodingEsimAccess Encoding = iota
	// EncodingPaddle is the payment-record encoding: amount / 100 = dollars.
	EncodingPaddle
)

// UnitsPerDollar returns the integer units representing one US dollar.
func (e Encoding) UnitsPerDollar() int64 {
	if e == EncodingPaddle {
		return 100
	}
	return 10000
}

// Dollars converts an encoded USD integer amount to a dollar value.
func (e Encoding) Dollars(amount int64) float64 {
	return float64(amount) / float64(e.UnitsPerDollar())
}
