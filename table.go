package captable

import (
	"fmt"
	"slices"
)

// Table is a cap table: a ledger of shareholders and the history of funding
// rounds that were committed to it.
//
// Table is the stateful side of the package, it validates user inputs before
// calling the stateless calculator and round engine.
type Table struct {
	currency     string
	shareholders Ledger
	rounds       []FundingRound
}

// NewTable creates an empty cap table in that currency.
func NewTable(currency string) *Table {
	return &Table{
		currency:     currency,
		shareholders: Ledger{}.WithPool(),
	}
}

// Currency returns the currency of all amounts in the table.
func (t *Table) Currency() string { return t.currency }

// Shareholders returns a copy of the ledger.
func (t *Table) Shareholders() Ledger { return t.shareholders.Clone() }

// Rounds returns a copy of the round history, oldest first.
func (t *Table) Rounds() []FundingRound { return slices.Clone(t.rounds) }

// LatestRound returns the last committed round, the only editable one.
func (t *Table) LatestRound() (FundingRound, bool) {
	if len(t.rounds) == 0 {
		return FundingRound{}, false
	}
	return t.rounds[len(t.rounds)-1], true
}

// Round returns the round with that id.
func (t *Table) Round(id string) (FundingRound, bool) {
	i := slices.IndexFunc(t.rounds, func(r FundingRound) bool { return r.ID == id })
	if i < 0 {
		return FundingRound{}, false
	}
	return t.rounds[i], true
}

// Snapshot computes the current cap table.
func (t *Table) Snapshot() *Snapshot { return ComputeSnapshot(t.shareholders, nil) }

// Preview computes the cap table as it would be after the draft round.
func (t *Table) Preview(d RoundDraft) *Snapshot { return ComputeSnapshot(t.shareholders, &d) }

// AddShareholder validates and appends a new shareholder.
func (t *Table) AddShareholder(in ShareholderInput) (Shareholder, error) {
	if err := in.Validate(); err != nil {
		return Shareholder{}, fmt.Errorf("invalid shareholder: %w", err)
	}
	sh := Shareholder{ID: NewID(), Name: in.Name, Category: in.Category, ClassA: in.ClassA, ClassB: in.ClassB}
	t.shareholders = append(t.shareholders.Clone(), sh)
	return sh, nil
}

// UpdateShareholder validates and replaces the fields of an existing shareholder.
func (t *Table) UpdateShareholder(id string, in ShareholderInput) (Shareholder, error) {
	i := t.shareholders.Index(id)
	if i < 0 {
		return Shareholder{}, fmt.Errorf("cannot update %q: %w", id, ErrUnknownShareholder)
	}
	validate := in.Validate
	if id == EmployeePoolID {
		validate = in.validatePool
		in.Name = EmployeePoolName
	}
	if err := validate(); err != nil {
		return Shareholder{}, fmt.Errorf("invalid shareholder: %w", err)
	}
	next := t.shareholders.Clone()
	next[i] = Shareholder{ID: id, Name: in.Name, Category: in.Category, ClassA: in.ClassA, ClassB: in.ClassB}
	t.shareholders = next
	return next[i], nil
}

// RemoveShareholder deletes a shareholder from the ledger. The Employee Option
// Pool cannot be removed, only zeroed.
func (t *Table) RemoveShareholder(id string) error {
	if id == EmployeePoolID {
		return ErrPoolProtected
	}
	i := t.shareholders.Index(id)
	if i < 0 {
		return fmt.Errorf("cannot remove %q: %w", id, ErrUnknownShareholder)
	}
	t.shareholders = slices.Delete(t.shareholders.Clone(), i, i+1)
	return nil
}

// Commit validates the draft and commits it as a new round.
//
// If editing is not empty it must be the id of the latest round: that round
// is reverted first, then replaced by the draft under the same id.
func (t *Table) Commit(d RoundDraft, editing string) (FundingRound, error) {
	base, rounds := t.shareholders, t.rounds
	if editing != "" {
		var err error
		base, rounds, err = RevertRound(base, rounds, editing)
		if err != nil {
			return FundingRound{}, fmt.Errorf("cannot edit round: %w", err)
		}
	}
	if err := ValidateDraft(base, d, t.currency); err != nil {
		return FundingRound{}, fmt.Errorf("invalid round %q: %w", d.Name, err)
	}
	next, round := CommitRound(base, d, editing)
	t.shareholders = next
	t.rounds = append(slices.Clone(rounds), round)
	return round, nil
}

// Revert undoes the latest round. An empty id means the latest round.
func (t *Table) Revert(id string) (FundingRound, error) {
	latest, ok := t.LatestRound()
	if !ok {
		return FundingRound{}, fmt.Errorf("no funding round to revert: %w", ErrNotLatestRound)
	}
	if id == "" {
		id = latest.ID
	}
	next, rounds, err := RevertRound(t.shareholders, t.rounds, id)
	if err != nil {
		return FundingRound{}, err
	}
	t.shareholders, t.rounds = next, rounds
	return latest, nil
}
