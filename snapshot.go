package captable

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// HolderKind tells apart real ledger entries from entries that only exist in
// a round preview.
type HolderKind int

const (
	// LedgerEntry is a Holder projected from a Shareholder of the ledger.
	LedgerEntry HolderKind = iota
	// PreviewEntry is the aggregate of a hypothetical round's new investors.
	// It has no id and never maps back to a Shareholder.
	PreviewEntry
)

func (k HolderKind) String() string {
	switch k {
	case LedgerEntry:
		return "ledger"
	case PreviewEntry:
		return "preview"
	default:
		return "unknown"
	}
}

func (k HolderKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Holding is a non zero number of shares of one class.
type Holding struct {
	Class ShareClass `json:"class"`
	Count Shares     `json:"count"`
}

// Holder is the derived view of a shareholder within a Snapshot.
type Holder struct {
	Kind        HolderKind `json:"kind"`
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Category    Category   `json:"category"`
	Holdings    []Holding  `json:"holdings"`
	TotalShares Shares     `json:"totalShares"`
	Ownership   Percent    `json:"ownership"`
	VotingPower int64      `json:"votingPower"`
	Voting      Percent    `json:"voting"`
}

// PoolSummary describes the Employee Option Pool within a Snapshot.
type PoolSummary struct {
	Allocated  Shares  `json:"allocated"`
	Percentage Percent `json:"percentage"`
}

// RoundPreview holds the economics of a hypothetical round.
type RoundPreview struct {
	Name               string `json:"name"`
	TotalInvestment    Money  `json:"totalInvestment"`
	PreMoney           Money  `json:"preMoney"`
	PostMoney          Money  `json:"postMoney"`
	SharesIssued       Shares `json:"sharesIssued"`
	SharePrice         Money  `json:"sharePrice"`
	OptionPoolIncrease Shares `json:"optionPoolIncrease"`
}

// Snapshot is the fully derived state of a cap table, optionally including the
// effect of a hypothetical round.
//
// Holders only contains entries with shares, sorted by decreasing ownership.
// Ownership and Voting percentages of all Holders each sum up to 100 (or 0 if
// there are no shares at all).
type Snapshot struct {
	TotalClassA      Shares        `json:"totalClassA"`
	TotalClassB      Shares        `json:"totalClassB"`
	TotalShares      Shares        `json:"totalShares"`
	TotalVotingPower int64         `json:"totalVotingPower"`
	Holders          []Holder      `json:"holders"`
	OptionPool       PoolSummary   `json:"optionPool"`
	Preview          *RoundPreview `json:"preview,omitempty"`
}

// Holder returns the ledger entry with that id.
func (s *Snapshot) Holder(id string) (Holder, bool) {
	for _, h := range s.Holders {
		if h.Kind == LedgerEntry && h.ID == id {
			return h, true
		}
	}
	return Holder{}, false
}

// ComputeSnapshot derives ownership and voting figures from the ledger.
//
// When draft is not nil the snapshot includes the draft's option pool increase
// and the shares it would issue, and Preview holds the round economics.
// Neither ledger nor draft are modified.
func ComputeSnapshot(ledger Ledger, draft *RoundDraft) *Snapshot {
	holders := make([]Holder, 0, len(ledger)+1)
	for _, sh := range ledger {
		holders = append(holders, project(sh))
	}

	var preview *RoundPreview
	if draft != nil {
		holders, preview = simulate(holders, *draft)
	}
	return aggregate(holders, preview)
}

// project creates the working Holder of a shareholder.
func project(sh Shareholder) Holder {
	h := Holder{
		Kind:     LedgerEntry,
		ID:       sh.ID,
		Name:     sh.Name,
		Category: sh.Category,
	}
	if sh.ClassA > 0 {
		h.Holdings = append(h.Holdings, Holding{Class: ClassA, Count: sh.ClassA})
	}
	if sh.ClassB > 0 {
		h.Holdings = append(h.Holdings, Holding{Class: ClassB, Count: sh.ClassB})
	}
	return h
}

// addClassA adds n class A shares to h.
func (h *Holder) addClassA(n Shares) {
	for i := range h.Holdings {
		if h.Holdings[i].Class == ClassA {
			h.Holdings[i].Count += n
			return
		}
	}
	h.Holdings = slices.Insert(h.Holdings, 0, Holding{Class: ClassA, Count: n})
}

// shares returns the sum of all holdings.
func (h Holder) shares() Shares {
	var total Shares
	for _, x := range h.Holdings {
		total += x.Count
	}
	return total
}

// votes returns the voting power of all holdings.
func (h Holder) votes() int64 {
	var total int64
	for _, x := range h.Holdings {
		total += int64(x.Count) * x.Class.Votes()
	}
	return total
}

// simulate applies a hypothetical round to the working set of holders.
func simulate(holders []Holder, draft RoundDraft) ([]Holder, *RoundPreview) {
	increase := draft.OptionPoolIncrease.nonNegative()
	if increase > 0 {
		i := slices.IndexFunc(holders, func(h Holder) bool { return h.Kind == LedgerEntry && h.ID == EmployeePoolID })
		if i < 0 {
			holders = append(holders, project(newPool()))
			i = len(holders) - 1
		}
		holders[i].addClassA(increase)
	}

	// the share base is taken after the pool increase, before the new investors.
	var base Shares
	for _, h := range holders {
		base += h.shares()
	}

	v := resolveValuation(draft, base)
	preview := &RoundPreview{
		Name:               draft.Name,
		TotalInvestment:    v.investment,
		PreMoney:           v.preMoney,
		PostMoney:          v.postMoney,
		SharesIssued:       v.sharesIssued,
		SharePrice:         v.sharePrice,
		OptionPoolIncrease: increase,
	}

	if v.sharesIssued > 0 && len(draft.Investors) > 0 {
		holders = append(holders, Holder{
			Kind:     PreviewEntry,
			Name:     fmt.Sprintf("New Investors (%s)", draft.Name),
			Category: Investor,
			Holdings: []Holding{{Class: ClassA, Count: v.sharesIssued}},
		})
	}
	return holders, preview
}

// valuation is the economics of a round.
type valuation struct {
	investment   Money
	preMoney     Money
	postMoney    Money
	sharesIssued Shares
	sharePrice   Money
}

var hundred = decimal.NewFromInt(100)

// resolveValuation computes the economics of a draft against a share base.
//
// In the PreMoney model new investors get investment/postMoney of the post
// round shares, hence investment*base/preMoney new shares. In the Percentage
// model they get p of the post round shares, hence p*base/(1-p) new shares.
// When the model's inputs are not usable every figure is zero.
func resolveValuation(draft RoundDraft, base Shares) valuation {
	currency := draft.currency()
	investment := draft.TotalInvestment().Decimal()
	v := valuation{
		investment: M(investment, currency),
		preMoney:   M(0, currency),
		postMoney:  M(0, currency),
		sharePrice: M(0, currency),
	}

	switch draft.Model {
	case PreMoney:
		pre := draft.PreMoney.Decimal()
		if !pre.IsPositive() {
			break
		}
		v.preMoney = M(pre, currency)
		v.postMoney = M(pre.Add(investment), currency)
		v.sharesIssued = roundShares(investment.Mul(base.Decimal()).Div(pre))
	case Percentage:
		pct := draft.PercentageAcquired
		if !pct.IsPositive() || !pct.LessThan(hundred) || !investment.IsPositive() {
			break
		}
		p := pct.Div(hundred)
		post := investment.Div(p)
		v.postMoney = M(post, currency)
		v.preMoney = M(post.Sub(investment), currency)
		v.sharesIssued = roundShares(p.Mul(base.Decimal()).Div(decimal.NewFromInt(1).Sub(p)))
	}

	if v.sharesIssued > 0 {
		v.sharePrice = v.investment.PerShare(v.sharesIssued)
	}
	return v
}

// aggregate computes totals and percentages, drops holders without shares and
// sorts the others by decreasing ownership.
func aggregate(holders []Holder, preview *RoundPreview) *Snapshot {
	s := &Snapshot{Preview: preview}
	for _, h := range holders {
		for _, x := range h.Holdings {
			switch x.Class {
			case ClassA:
				s.TotalClassA += x.Count
			case ClassB:
				s.TotalClassB += x.Count
			}
		}
	}
	s.TotalShares = s.TotalClassA + s.TotalClassB

	s.Holders = make([]Holder, 0, len(holders))
	for _, h := range holders {
		h.TotalShares = h.shares()
		h.Ownership = percentOf(h.TotalShares, s.TotalShares)
		h.VotingPower = h.votes()
		s.TotalVotingPower += h.VotingPower
		if h.TotalShares <= 0 {
			continue
		}
		s.Holders = append(s.Holders, h)
	}
	// voting percentages need the total voting power first.
	for i := range s.Holders {
		s.Holders[i].Voting = percentOf(s.Holders[i].VotingPower, s.TotalVotingPower)
	}

	slices.SortStableFunc(s.Holders, func(a, b Holder) int {
		return cmp.Compare(b.Ownership, a.Ownership)
	})

	if pool, ok := s.Holder(EmployeePoolID); ok {
		s.OptionPool = PoolSummary{
			Allocated:  pool.TotalShares,
			Percentage: percentOf(pool.TotalShares, s.TotalShares),
		}
	}
	return s
}
