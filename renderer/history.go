package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the list of committed rounds, oldest first.
func HistoryMarkdown(rounds []captable.FundingRound) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Funding Rounds")
	if len(rounds) == 0 {
		doc.PlainText("No funding round has been committed yet.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Round", "ID", "Pre-money", "Investment", "Post-money", "Share Price", "Shares Issued"},
	}
	for _, r := range rounds {
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			r.Name,
			fmt.Sprintf("`%s`", r.ID),
			r.PreMoney.String(),
			r.Investment.String(),
			r.PostMoney.String(),
			r.SharePrice.String(),
			shares(r.SharesIssued),
		})
	}
	doc.Table(table)

	last := rounds[len(rounds)-1]
	doc.PlainText(fmt.Sprintf("Only the latest round, %s, can be edited or reverted.", md.Bold(last.Name)))
	return doc.String()
}

// RoundMarkdown renders the details of one committed round.
func RoundMarkdown(r captable.FundingRound) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Round: %s", r.Name))

	rows := [][]string{
		{"Date", r.Date.String()},
		{"Valuation Model", modelName(r.Model)},
	}
	if r.Model == captable.Percentage {
		rows = append(rows, []string{"Percentage Acquired", r.PercentageAcquired.String() + "%"})
	}
	rows = append(rows,
		[]string{"Pre-money Valuation", r.PreMoney.String()},
		[]string{"Total Investment", r.Investment.String()},
		[]string{"Post-money Valuation", r.PostMoney.String()},
		[]string{"Share Price", r.SharePrice.String()},
		[]string{"Shares Issued", shares(r.SharesIssued)},
	)
	if r.OptionPoolIncrease > 0 {
		rows = append(rows, []string{"Option Pool Increase", shares(r.OptionPoolIncrease)})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"ID", fmt.Sprintf("`%s`", r.ID)},
		Rows:      rows,
	})

	if len(r.Investors) > 0 {
		doc.H2("Investors")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Investor", "Investment", "Shares Acquired"},
		}
		for _, inv := range r.Investors {
			table.Rows = append(table.Rows, []string{inv.Name, inv.Amount.String(), shares(inv.SharesAcquired)})
		}
		doc.Table(table)
	}
	return doc.String()
}

func modelName(m captable.ValuationModel) string {
	switch m {
	case captable.PreMoney:
		return "Pre-money valuation"
	case captable.Percentage:
		return "Percentage acquired"
	default:
		return m.String()
	}
}
