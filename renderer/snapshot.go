package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/captable"
	md "github.com/nao1215/markdown"
)

// SnapshotMarkdown renders the current cap table.
func SnapshotMarkdown(s *captable.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Cap Table")
	if len(s.Holders) == 0 {
		doc.PlainText("No shares have been issued yet.")
		return doc.String()
	}
	holdersTable(doc, s)
	optionPool(doc, s)
	return doc.String()
}

// PreviewMarkdown renders a snapshot computed with a round draft: the round
// economics followed by the cap table after the round.
func PreviewMarkdown(s *captable.Snapshot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	p := s.Preview
	if p == nil {
		return SnapshotMarkdown(s)
	}
	doc.H1(fmt.Sprintf("Round Preview: %s", p.Name))

	rows := [][]string{
		{"Pre-money Valuation", p.PreMoney.String()},
		{"Total Investment", p.TotalInvestment.String()},
		{"Post-money Valuation", p.PostMoney.String()},
		{"Share Price", p.SharePrice.String()},
		{"Shares Issued", shares(p.SharesIssued)},
	}
	if p.OptionPoolIncrease > 0 {
		rows = append(rows, []string{"Option Pool Increase", shares(p.OptionPoolIncrease)})
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Round", md.Bold(p.Name)},
		Rows:      rows,
	})
	if p.SharesIssued == 0 {
		doc.PlainText(md.Bold("Warning:") + " this round issues no shares, check the valuation and the investments.")
	}

	doc.H2("Cap Table after the Round")
	holdersTable(doc, s)
	optionPool(doc, s)
	return doc.String()
}

func holdersTable(doc *md.Markdown, s *captable.Snapshot) {
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Shareholder", "Category", "Class A", "Class B", "Total", "Ownership", "Voting"},
	}
	for _, h := range s.Holders {
		name := h.Name
		if h.Kind == captable.PreviewEntry {
			name = fmt.Sprintf("_%s_", h.Name)
		}
		table.Rows = append(table.Rows, []string{
			name,
			h.Category.String(),
			sharesOrDash(holding(h, captable.ClassA)),
			sharesOrDash(holding(h, captable.ClassB)),
			shares(h.TotalShares),
			h.Ownership.String(),
			h.Voting.String(),
		})
	}
	table.Rows = append(table.Rows, []string{
		md.Bold("Total"),
		"",
		md.Bold(shares(s.TotalClassA)),
		md.Bold(shares(s.TotalClassB)),
		md.Bold(shares(s.TotalShares)),
		md.Bold("100.00%"),
		md.Bold("100.00%"),
	})
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("Total voting power: %s votes.", votes(s.TotalVotingPower)))
}

func optionPool(doc *md.Markdown, s *captable.Snapshot) {
	if s.OptionPool.Allocated == 0 {
		return
	}
	doc.H2("Employee Option Pool")
	doc.PlainText(fmt.Sprintf("%s shares allocated, %s of the fully diluted shares.",
		shares(s.OptionPool.Allocated), s.OptionPool.Percentage))
}
