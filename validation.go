package captable

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownShareholder is returned when no shareholder has the given id.
	ErrUnknownShareholder = errors.New("unknown shareholder")
	// ErrPoolProtected is returned by operations the Employee Option Pool does
	// not support: creation, deletion, renaming or re-categorisation.
	ErrPoolProtected = errors.New("the Employee Option Pool cannot be created, deleted, or re-categorised")
)

// ShareholderInput holds the editable fields of a shareholder.
type ShareholderInput struct {
	Name     string
	Category Category
	ClassA   Shares
	ClassB   Shares
}

// Validate checks a new or updated shareholder and returns all the failures.
func (in ShareholderInput) Validate() error {
	var errs error
	if in.Name == "" {
		errs = errors.Join(errs, errors.New("name is required"))
	}
	if in.Category == EmployeePool {
		errs = errors.Join(errs, ErrPoolProtected)
	}
	if in.ClassA < 0 || in.ClassB < 0 {
		errs = errors.Join(errs, errors.New("share counts cannot be negative"))
	}
	if in.ClassB > 0 && in.Category != Founder {
		errs = errors.Join(errs, fmt.Errorf("class B shares are reserved for founders, not %s", in.Category))
	}
	if in.ClassA <= 0 && in.ClassB <= 0 {
		errs = errors.Join(errs, errors.New("shareholder must have some shares"))
	}
	return errs
}

// validatePool checks an update of the Employee Option Pool: only its class A
// shares can change, and they can be zeroed.
func (in ShareholderInput) validatePool() error {
	var errs error
	if in.Category != EmployeePool {
		errs = errors.Join(errs, ErrPoolProtected)
	}
	if in.ClassA < 0 {
		errs = errors.Join(errs, errors.New("share counts cannot be negative"))
	}
	if in.ClassB != 0 {
		errs = errors.Join(errs, errors.New("the Employee Option Pool only holds class A shares"))
	}
	return errs
}

// ValidateDraft checks that a draft can be committed against the ledger, in
// the given currency, and returns all the failures.
//
// The snapshot calculation accepts incomplete drafts, committing one requires
// a positive investment, a usable valuation, and at least one share to issue.
func ValidateDraft(ledger Ledger, d RoundDraft, currency string) error {
	var errs error
	if d.Name == "" {
		errs = errors.Join(errs, errors.New("round name is required"))
	}
	if len(d.Investors) == 0 {
		errs = errors.Join(errs, errors.New("a round needs at least one investor"))
	}
	for i, inv := range d.Investors {
		if inv.Name == "" {
			errs = errors.Join(errs, fmt.Errorf("investor #%d: name is required", i+1))
		}
		if inv.Amount.IsNegative() {
			errs = errors.Join(errs, fmt.Errorf("investor %q: investment cannot be negative", inv.Name))
		}
		if c := inv.Amount.Currency(); c != "" && c != currency {
			errs = errors.Join(errs, fmt.Errorf("investor %q: investment in %s, the cap table is in %s", inv.Name, c, currency))
		}
	}
	if c := d.PreMoney.Currency(); c != "" && c != currency {
		errs = errors.Join(errs, fmt.Errorf("pre-money valuation in %s, the cap table is in %s", c, currency))
	}
	if d.OptionPoolIncrease < 0 {
		errs = errors.Join(errs, errors.New("option pool increase cannot be negative"))
	}
	if errs != nil {
		// the remaining checks are meaningless on a broken draft.
		return errs
	}

	if !d.TotalInvestment().IsPositive() {
		errs = errors.Join(errs, errors.New("total investment amount must be greater than zero"))
	}
	switch d.Model {
	case PreMoney:
		if !d.PreMoney.IsPositive() {
			errs = errors.Join(errs, errors.New("pre-money valuation must be greater than zero"))
		}
	case Percentage:
		if !d.PercentageAcquired.IsPositive() || !d.PercentageAcquired.LessThan(hundred) {
			errs = errors.Join(errs, fmt.Errorf("percentage acquired must be between 0 and 100 (exclusive), got %s", d.PercentageAcquired))
		}
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown valuation model %d", d.Model))
	}
	if errs != nil {
		return errs
	}

	if p := ComputeSnapshot(ledger, &d).Preview; p.SharesIssued <= 0 {
		return errors.New("calculated shares to issue is zero, check valuation and investment inputs")
	}
	return nil
}

// Check validates a whole table, typically after decoding it, and returns
// all the failures.
//
// Shareholders may hold no share at all: reverting a round can leave an
// investor at zero.
func (t *Table) Check() error {
	var errs error
	pools := 0
	for _, sh := range t.shareholders {
		if sh.IsPool() {
			pools++
			if err := (ShareholderInput{Category: sh.Category, ClassA: sh.ClassA, ClassB: sh.ClassB}).validatePool(); err != nil {
				errs = errors.Join(errs, fmt.Errorf("shareholder %q: %w", sh.ID, err))
			}
			continue
		}
		if sh.Name == "" {
			errs = errors.Join(errs, fmt.Errorf("shareholder %q: name is required", sh.ID))
		}
		if sh.Category == EmployeePool {
			errs = errors.Join(errs, fmt.Errorf("shareholder %q: %w", sh.ID, ErrPoolProtected))
		}
		if sh.ClassA < 0 || sh.ClassB < 0 {
			errs = errors.Join(errs, fmt.Errorf("shareholder %q: share counts cannot be negative", sh.ID))
		}
		if sh.ClassB > 0 && sh.Category != Founder {
			errs = errors.Join(errs, fmt.Errorf("shareholder %q: class B shares are reserved for founders, not %s", sh.ID, sh.Category))
		}
	}
	if pools != 1 {
		errs = errors.Join(errs, fmt.Errorf("want exactly one Employee Option Pool, got %d", pools))
	}

	seen := make(map[string]bool)
	for _, r := range t.rounds {
		if r.ID == "" || seen[r.ID] {
			errs = errors.Join(errs, fmt.Errorf("round %q: missing or duplicate id", r.Name))
		}
		seen[r.ID] = true
	}
	if t.currency == "" {
		errs = errors.Join(errs, errors.New("the table has no currency"))
	}
	return errs
}
