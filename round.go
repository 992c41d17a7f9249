package captable

import (
	"fmt"

	"github.com/etnz/captable/date"
	"github.com/shopspring/decimal"
)

// ValuationModel is how a round defines its valuation.
type ValuationModel int

const (
	// PreMoney rounds are defined by the pre-money valuation.
	PreMoney ValuationModel = iota
	// Percentage rounds are defined by the percentage acquired by new investors.
	Percentage
)

func (m ValuationModel) String() string {
	switch m {
	case PreMoney:
		return "preMoney"
	case Percentage:
		return "percentage"
	default:
		return "unknown"
	}
}

// ParseValuationModel parses a string into a ValuationModel.
func ParseValuationModel(s string) (ValuationModel, error) {
	switch s {
	case "preMoney", "pre-money", "pre":
		return PreMoney, nil
	case "percentage", "pct":
		return Percentage, nil
	default:
		return 0, fmt.Errorf("unknown valuation model: %q", s)
	}
}

func (m ValuationModel) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *ValuationModel) UnmarshalText(text []byte) error {
	v, err := ParseValuationModel(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DraftInvestor is an investor of a round that is not committed yet.
type DraftInvestor struct {
	TempID string // round-local id
	Name   string
	Amount Money
}

// RoundDraft is a hypothetical funding round.
//
// Only the valuation input matching Model is used: PreMoney for the PreMoney
// model, PercentageAcquired for the Percentage model.
type RoundDraft struct {
	Name               string
	Date               date.Date
	Model              ValuationModel
	PreMoney           Money
	PercentageAcquired decimal.Decimal // in the 0-100 range
	Investors          []DraftInvestor
	OptionPoolIncrease Shares
}

// TotalInvestment returns the sum of all investors' amounts. Negative amounts
// count as zero.
func (d RoundDraft) TotalInvestment() Money {
	total := decimal.Zero
	for _, inv := range d.Investors {
		total = total.Add(inv.Amount.nonNegative().Decimal())
	}
	return M(total, d.currency())
}

// currency returns the first currency set in the draft.
func (d RoundDraft) currency() string {
	if d.PreMoney.Currency() != "" {
		return d.PreMoney.Currency()
	}
	for _, inv := range d.Investors {
		if inv.Amount.Currency() != "" {
			return inv.Amount.Currency()
		}
	}
	return ""
}

// InvestorDetail records the participation of an investor in a committed round.
type InvestorDetail struct {
	ID             string // round-local id
	ShareholderID  string // the ledger entry that received the shares
	Name           string
	Amount         Money
	SharesAcquired Shares
}

// FundingRound is a committed round. Only the latest round of a history can
// be edited or reverted, earlier ones are frozen.
type FundingRound struct {
	ID                 string
	Name               string
	Date               date.Date
	Model              ValuationModel
	PreMoney           Money
	Investment         Money
	PostMoney          Money
	SharePrice         Money
	PercentageAcquired decimal.Decimal // only for the Percentage model
	SharesIssued       Shares          // sum of Investors' SharesAcquired
	OptionPoolIncrease Shares
	Investors          []InvestorDetail
}

// Draft returns the draft that would commit r again, used to edit a round.
func (r FundingRound) Draft() RoundDraft {
	d := RoundDraft{
		Name:               r.Name,
		Date:               r.Date,
		Model:              r.Model,
		OptionPoolIncrease: r.OptionPoolIncrease,
		Investors:          make([]DraftInvestor, 0, len(r.Investors)),
	}
	switch r.Model {
	case PreMoney:
		d.PreMoney = r.PreMoney
	case Percentage:
		d.PercentageAcquired = r.PercentageAcquired
	}
	for _, inv := range r.Investors {
		d.Investors = append(d.Investors, DraftInvestor{TempID: inv.ID, Name: inv.Name, Amount: inv.Amount})
	}
	return d
}

// references reports whether one of the round's investors resolved to the
// shareholder id.
func (r FundingRound) references(id string) bool {
	for _, inv := range r.Investors {
		if inv.ShareholderID == id {
			return true
		}
	}
	return false
}
