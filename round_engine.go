package captable

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// NewID returns a fresh unique id for shareholders and rounds.
var NewID = uuid.NewString

// ErrNotLatestRound is returned when changing a round that is not the last one
// of the history.
var ErrNotLatestRound = errors.New("only the latest funding round can be changed")

// CommitRound turns a draft into a committed round.
//
// It returns a new ledger where the option pool increase is applied and new
// shares are allocated to investors in proportion of their investment, and the
// round record. Investors are matched with existing Investor shareholders by
// name, ignoring case; unknown ones are created.
//
// If editing is not empty the round gets that id, otherwise a new one.
// CommitRound does not validate the draft: a draft without investment commits
// a round with no shares issued.
func CommitRound(ledger Ledger, draft RoundDraft, editing string) (Ledger, FundingRound) {
	// economics are always recomputed against the ledger being committed to.
	preview := ComputeSnapshot(ledger, &draft).Preview

	round := FundingRound{
		ID:                 editing,
		Name:               draft.Name,
		Date:               draft.Date,
		Model:              draft.Model,
		PreMoney:           preview.PreMoney,
		Investment:         preview.TotalInvestment,
		PostMoney:          preview.PostMoney,
		SharePrice:         preview.SharePrice,
		OptionPoolIncrease: preview.OptionPoolIncrease,
	}
	if round.ID == "" {
		round.ID = NewID()
	}
	if draft.Model == Percentage {
		round.PercentageAcquired = draft.PercentageAcquired
	}

	next := ledger.WithPool().Clone()
	if round.OptionPoolIncrease > 0 {
		i := next.Index(EmployeePoolID)
		next[i].ClassA += round.OptionPoolIncrease
	}

	total := preview.TotalInvestment.Decimal()
	if preview.SharesIssued > 0 && total.IsPositive() {
		issued := preview.SharesIssued.Decimal()
		for _, inv := range draft.Investors {
			amount := inv.Amount.nonNegative()
			// rounded per investor, independently from the round total.
			n := roundShares(issued.Mul(amount.Decimal()).Div(total))
			if n == 0 {
				continue
			}

			var id string
			if i := next.FindInvestor(inv.Name); i >= 0 {
				next[i].ClassA += n
				id = next[i].ID
			} else {
				id = NewID()
				next = append(next, Shareholder{ID: id, Name: inv.Name, Category: Investor, ClassA: n})
			}
			round.Investors = append(round.Investors, InvestorDetail{
				ID:             inv.TempID,
				ShareholderID:  id,
				Name:           inv.Name,
				Amount:         amount,
				SharesAcquired: n,
			})
		}
	}

	// the recorded total is what was actually added to the ledger.
	round.SharesIssued = 0
	for _, inv := range round.Investors {
		round.SharesIssued += inv.SharesAcquired
	}
	return next, round
}

// RevertRound undoes the round with that id, which must be the last of rounds.
//
// Shares the round added are removed (never below zero). Investors left
// without shares are removed from the ledger, unless an earlier round also
// references them. It returns the new ledger and history, or
// ErrNotLatestRound leaving nothing changed.
func RevertRound(ledger Ledger, rounds []FundingRound, id string) (Ledger, []FundingRound, error) {
	if len(rounds) == 0 || rounds[len(rounds)-1].ID != id {
		return nil, nil, fmt.Errorf("cannot revert round %q: %w", id, ErrNotLatestRound)
	}
	round := rounds[len(rounds)-1]
	earlier := slices.Clone(rounds[:len(rounds)-1])

	next := ledger.Clone()
	if round.OptionPoolIncrease > 0 {
		if i := next.Index(EmployeePoolID); i >= 0 {
			next[i].ClassA = (next[i].ClassA - round.OptionPoolIncrease).nonNegative()
		}
	}

	for _, inv := range round.Investors {
		i := next.Index(inv.ShareholderID)
		if inv.ShareholderID == "" || i < 0 {
			continue
		}
		next[i].ClassA = (next[i].ClassA - inv.SharesAcquired).nonNegative()
		if sh := next[i]; sh.ClassA <= 0 && sh.ClassB <= 0 && sh.Category == Investor && !referenced(earlier, sh.ID) {
			next = slices.Delete(next, i, i+1)
		}
	}
	return next, earlier, nil
}

// referenced reports whether any of the rounds has an investor resolved to the
// shareholder id.
func referenced(rounds []FundingRound, id string) bool {
	return slices.ContainsFunc(rounds, func(r FundingRound) bool { return r.references(id) })
}
