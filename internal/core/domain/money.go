package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var storefrontLanguage = language.BrazilianPortuguese

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func BRL(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: currency.BRL}
}

func (m Money) Format() string {
	p := message.NewPrinter(storefrontLanguage)
	return p.Sprint(currency.Symbol(m.Currency.Amount(m.Amount.InexactFloat64())))
}
