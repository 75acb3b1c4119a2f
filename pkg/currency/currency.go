package currency

import (
	"fmt"
	"strings"
)

// Currency pairs an ISO 4217 alpha code with the marker Venmo prints in front of amounts.
type Currency struct {
	IsoAlphaCode string
	Symbol       string
}

var currencies = map[string]Currency{
	"USD": {IsoAlphaCode: "USD", Symbol: "$"},
	"CAD": {IsoAlphaCode: "CAD", Symbol: "$"},
	"AUD": {IsoAlphaCode: "AUD", Symbol: "$"},
	"EUR": {IsoAlphaCode: "EUR", Symbol: "€"},
	"GBP": {IsoAlphaCode: "GBP", Symbol: "£"},
	"JPY": {IsoAlphaCode: "JPY", Symbol: "¥"},
	"INR": {IsoAlphaCode: "INR", Symbol: "₹"},
	"KRW": {IsoAlphaCode: "KRW", Symbol: "₩"},
}

// Find looks a currency up by its alpha code, case insensitive.
func Find(code string) (Currency, error) {
	if c, ok := currencies[strings.ToUpper(code)]; ok {
		return c, nil
	}

	return Currency{}, fmt.Errorf("unknown currency %q", code)
}

// Known reports whether code names a supported currency.
func Known(code string) bool {
	_, err := Find(code)
	return err == nil
}

// LowerCode is the code in the lowercase form Lunch Money expects.
func (c Currency) LowerCode() string {
	return strings.ToLower(c.IsoAlphaCode)
}

func (c Currency) String() string {
	return c.IsoAlphaCode
}
