package venmo

import (
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

var amountRegex = regexp.MustCompile(`^([-+]?) ?([^0-9])([0-9.]+)$`)

// Amount is a signed value with the currency marker it was printed with. The marker is not
// checked against any currency here.
type Amount struct {
	Currency string
	Value    float64
}

// ParseAmount parses strings such as "- $12.34", "+ $5.00" or "$0.00".
func ParseAmount(s string) (Amount, error) {
	matches := amountRegex.FindStringSubmatch(s)
	if matches == nil {
		return Amount{}, &AmountParseError{Value: s}
	}

	magnitude, err := decimal.NewFromString(matches[3])
	if err != nil {
		return Amount{}, &AmountParseError{Value: s}
	}

	// negate after conversion so "- $0.00" keeps its sign bit
	val := magnitude.InexactFloat64()
	if matches[1] == "-" {
		val = -val
	}

	return Amount{Currency: matches[2], Value: val}, nil
}

func (a Amount) String() string {
	sign := ""
	if math.Signbit(a.Value) {
		sign = "-"
	}

	return fmt.Sprintf("%s%s%.4f", sign, a.Currency, math.Abs(a.Value))
}
