package captable

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newTestTable returns a table with a founder and an employee.
func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable("USD")
	if _, err := tbl.AddShareholder(ShareholderInput{Name: "Founder A", Category: Founder, ClassB: 8_000_000}); err != nil {
		t.Fatalf("AddShareholder() error = %v", err)
	}
	if _, err := tbl.AddShareholder(ShareholderInput{Name: "Erin", Category: Employee, ClassA: 100_000}); err != nil {
		t.Fatalf("AddShareholder() error = %v", err)
	}
	return tbl
}

func TestNewTable(t *testing.T) {
	tbl := NewTable("EUR")
	if tbl.Currency() != "EUR" {
		t.Errorf("Currency() = %q, want EUR", tbl.Currency())
	}
	want := Ledger{newPool()}
	if diff := cmp.Diff(want, tbl.Shareholders()); diff != "" {
		t.Errorf("a new table only holds the pool (-want +got):\n%s", diff)
	}
	if _, ok := tbl.LatestRound(); ok {
		t.Error("a new table has no round")
	}
}

func TestTable_Shareholders(t *testing.T) {
	withSequentialIDs(t)
	tbl := newTestTable(t)

	t.Run("update", func(t *testing.T) {
		sh, err := tbl.UpdateShareholder("id-2", ShareholderInput{Name: "Erin B.", Category: Employee, ClassA: 150_000})
		if err != nil {
			t.Fatalf("UpdateShareholder() error = %v", err)
		}
		if sh.ID != "id-2" || sh.Name != "Erin B." || sh.ClassA != 150_000 {
			t.Errorf("UpdateShareholder() = %+v", sh)
		}
	})

	t.Run("update unknown", func(t *testing.T) {
		_, err := tbl.UpdateShareholder("nobody", ShareholderInput{Name: "X", Category: Employee, ClassA: 1})
		if !errors.Is(err, ErrUnknownShareholder) {
			t.Errorf("UpdateShareholder() error = %v, want ErrUnknownShareholder", err)
		}
	})

	t.Run("update invalid", func(t *testing.T) {
		before := tbl.Shareholders()
		if _, err := tbl.UpdateShareholder("id-2", ShareholderInput{Name: "Erin", Category: Employee, ClassB: 10}); err == nil {
			t.Error("UpdateShareholder() should reject class B shares for an employee")
		}
		if diff := cmp.Diff(before, tbl.Shareholders()); diff != "" {
			t.Errorf("a rejected update modified the ledger (-want +got):\n%s", diff)
		}
	})

	t.Run("pool", func(t *testing.T) {
		sh, err := tbl.UpdateShareholder(EmployeePoolID, ShareholderInput{Name: "ignored", Category: EmployeePool, ClassA: 1_000})
		if err != nil {
			t.Fatalf("UpdateShareholder(pool) error = %v", err)
		}
		if sh.Name != EmployeePoolName || sh.ClassA != 1_000 {
			t.Errorf("pool = %+v, want its name kept and 1000 shares", sh)
		}
		if _, err := tbl.UpdateShareholder(EmployeePoolID, ShareholderInput{Category: EmployeePool}); err != nil {
			t.Errorf("zeroing the pool error = %v", err)
		}
		if _, err := tbl.UpdateShareholder(EmployeePoolID, ShareholderInput{Category: Investor, ClassA: 1}); !errors.Is(err, ErrPoolProtected) {
			t.Errorf("re-categorising the pool error = %v, want ErrPoolProtected", err)
		}
		if err := tbl.RemoveShareholder(EmployeePoolID); !errors.Is(err, ErrPoolProtected) {
			t.Errorf("removing the pool error = %v, want ErrPoolProtected", err)
		}
	})

	t.Run("remove", func(t *testing.T) {
		if err := tbl.RemoveShareholder("id-2"); err != nil {
			t.Fatalf("RemoveShareholder() error = %v", err)
		}
		if _, ok := tbl.Shareholders().Find("id-2"); ok {
			t.Error("removed shareholder is still in the ledger")
		}
		if err := tbl.RemoveShareholder("id-2"); !errors.Is(err, ErrUnknownShareholder) {
			t.Errorf("removing twice error = %v, want ErrUnknownShareholder", err)
		}
	})
}

func TestTable_CommitAndRevert(t *testing.T) {
	withSequentialIDs(t)
	tbl := newTestTable(t)
	initial := tbl.Shareholders()

	// base 8,100,000 shares, 1,000,000 after the pool increase
	seed := preMoneyDraft("Seed", 2_275_000, investor("Alice", 325_000))
	seed.OptionPoolIncrease = 1_000_000
	if got := tbl.Preview(seed).Preview.SharesIssued; got != 1_300_000 {
		t.Errorf("Preview() SharesIssued = %d, want 1300000", got)
	}

	round, err := tbl.Commit(seed, "")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if round.SharesIssued != 1_300_000 {
		t.Errorf("SharesIssued = %d, want 1300000", round.SharesIssued)
	}
	s := tbl.Snapshot()
	if s.TotalShares != 10_400_000 {
		t.Errorf("TotalShares = %d, want 10400000", s.TotalShares)
	}
	if latest, _ := tbl.LatestRound(); latest.ID != round.ID {
		t.Errorf("LatestRound() = %q, want %q", latest.ID, round.ID)
	}

	t.Run("invalid draft", func(t *testing.T) {
		before := tbl.Shareholders()
		if _, err := tbl.Commit(preMoneyDraft("", 1_000, investor("Bob", 10)), ""); err == nil {
			t.Error("Commit() should reject a draft without name")
		}
		if diff := cmp.Diff(before, tbl.Shareholders()); diff != "" {
			t.Errorf("a rejected commit modified the ledger (-want +got):\n%s", diff)
		}
		if len(tbl.Rounds()) != 1 {
			t.Errorf("a rejected commit modified the history")
		}
	})

	t.Run("edit", func(t *testing.T) {
		draft := round.Draft()
		draft.Investors[0].Amount = USD(650_000)
		draft.Investors = append(draft.Investors, investor("Bob", 325_000))

		edited, err := tbl.Commit(draft, round.ID)
		if err != nil {
			t.Fatalf("Commit(edit) error = %v", err)
		}
		if edited.ID != round.ID {
			t.Errorf("edited round ID = %q, want %q", edited.ID, round.ID)
		}
		if n := len(tbl.Rounds()); n != 1 {
			t.Errorf("got %d rounds after an edit, want 1", n)
		}
		// editing replaces the round: nothing from the first version remains.
		ledger := tbl.Shareholders()
		alice := ledger[ledger.FindInvestor("alice")]
		if alice.ClassA != 2_600_000 {
			t.Errorf("Alice has %d shares, want 2600000", alice.ClassA)
		}
		pool, _ := tbl.Shareholders().Find(EmployeePoolID)
		if pool.ClassA != 1_000_000 {
			t.Errorf("pool has %d shares, want 1000000", pool.ClassA)
		}
		round = edited
	})

	t.Run("edit not latest", func(t *testing.T) {
		if _, err := tbl.Commit(seed, "not-a-round"); !errors.Is(err, ErrNotLatestRound) {
			t.Errorf("Commit(edit) error = %v, want ErrNotLatestRound", err)
		}
	})

	t.Run("revert", func(t *testing.T) {
		reverted, err := tbl.Revert("")
		if err != nil {
			t.Fatalf("Revert() error = %v", err)
		}
		if reverted.ID != round.ID {
			t.Errorf("Revert() = %q, want %q", reverted.ID, round.ID)
		}
		if diff := cmp.Diff(initial, tbl.Shareholders()); diff != "" {
			t.Errorf("reverting all rounds should restore the ledger (-want +got):\n%s", diff)
		}
		if _, err := tbl.Revert(""); !errors.Is(err, ErrNotLatestRound) {
			t.Errorf("Revert() on an empty history error = %v, want ErrNotLatestRound", err)
		}
	})
}

func TestTable_Check(t *testing.T) {
	withSequentialIDs(t)
	if err := newTestTable(t).Check(); err != nil {
		t.Errorf("Check() error = %v", err)
	}

	bad := &Table{
		shareholders: Ledger{
			{ID: "a", Name: "A", Category: Investor, ClassB: 10},
			{ID: "b", Category: EmployeePool, ClassA: -1},
		},
		rounds: []FundingRound{{ID: "r", Name: "R"}, {ID: "r", Name: "R2"}},
	}
	err := bad.Check()
	if err == nil {
		t.Fatal("Check() should fail")
	}
	for _, want := range []string{
		"reserved for founders",
		`shareholder "b": name is required`,
		"cannot be negative",
		"exactly one Employee Option Pool, got 0",
		`round "R2": missing or duplicate id`,
		"no currency",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Check() error does not contain %q:\n%v", want, err)
		}
	}
}
