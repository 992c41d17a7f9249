package cmd

import (
	"fmt"
	"strings"

	"github.com/etnz/captable"
	"github.com/shopspring/decimal"
)

// investorsFlag collects repeated "-invest Name=Amount" flags.
type investorsFlag []investorArg

type investorArg struct {
	name   string
	amount decimal.Decimal
}

func (v *investorsFlag) String() string {
	if v == nil {
		return ""
	}
	parts := make([]string, 0, len(*v))
	for _, inv := range *v {
		parts = append(parts, inv.name+"="+inv.amount.String())
	}
	return strings.Join(parts, ",")
}

func (v *investorsFlag) Set(s string) error {
	i := strings.LastIndex(s, "=")
	if i <= 0 {
		return fmt.Errorf("invalid investor %q, want Name=Amount", s)
	}
	name := strings.TrimSpace(s[:i])
	amount, err := decimal.NewFromString(strings.TrimSpace(s[i+1:]))
	if err != nil {
		return fmt.Errorf("invalid amount for investor %q: %w", name, err)
	}
	*v = append(*v, investorArg{name: name, amount: amount})
	return nil
}

// draft returns the investors of a round draft in the given currency.
func (v investorsFlag) draft(currency string) []captable.DraftInvestor {
	investors := make([]captable.DraftInvestor, 0, len(v))
	for i, inv := range v {
		investors = append(investors, captable.DraftInvestor{
			TempID: fmt.Sprintf("investor-%d", i+1),
			Name:   inv.name,
			Amount: captable.M(inv.amount, currency),
		})
	}
	return investors
}

// decimalFlag is an optional decimal value.
type decimalFlag struct {
	value decimal.Decimal
	set   bool
}

func (v *decimalFlag) String() string {
	if v == nil || !v.set {
		return ""
	}
	return v.value.String()
}

func (v *decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	v.value, v.set = d, true
	return nil
}
