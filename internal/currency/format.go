package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	usdPrinter = message.NewPrinter(language.AmericanEnglish)
	idrPrinter = message.NewPrinter(language.Indonesian)
)

// Format renders an integer amount as a locale-correct display string. The
// encoding applies to USD only and must be supplied by the caller; it is
// never inferred from the magnitude of the amount. IDR amounts are whole
// rupiah regardless of encoding.
func Format(amount int64, code Code, enc Encoding) string {
	switch code {
	case IDR:
		return idrPrinter.Sprintf("Rp%v", number.Decimal(amount, number.MaxFractionDigits(0)))
	default:
		dollars := enc.Dollars(amount)
		return usdPrinter.Sprintf("$%v", number.Decimal(dollars,
			number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	}
}

// FormatEsimAccess formats a catalog-encoded amount (the default encoding for
// everything except payment-provider order records).
func FormatEsimAccess(amount int64, code Code) string {
	return Format(amount, code, EncodingEsimAccess)
}
