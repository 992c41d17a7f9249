package captable

import (
	"fmt"
	"math"
	"testing"

	"github.com/etnz/captable/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// D is a helper for test to create decimals from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// cmpOpts compares values holding decimals and dates.
var cmpOpts = cmp.Options{
	cmp.Comparer(func(a, b Money) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b date.Date) bool { return a == b }),
}

// withSequentialIDs makes NewID return "id-1", "id-2"... for the duration of the test.
func withSequentialIDs(t *testing.T) {
	t.Helper()
	old := NewID
	n := 0
	NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { NewID = old })
}

// founderLedger is a founder with 8,000,000 class B shares and an empty pool.
func founderLedger() Ledger {
	return Ledger{
		{ID: "founder-a", Name: "Founder A", Category: Founder, ClassB: 8_000_000},
		newPool(),
	}
}

// preMoneyDraft is a draft in the pre-money model.
func preMoneyDraft(name string, preMoney float64, investors ...DraftInvestor) RoundDraft {
	return RoundDraft{
		Name:      name,
		Date:      date.New(2025, 3, 1),
		Model:     PreMoney,
		PreMoney:  USD(preMoney),
		Investors: investors,
	}
}

// investor is a helper to create a draft investor.
func investor(name string, amount float64) DraftInvestor {
	return DraftInvestor{TempID: "tmp-" + name, Name: name, Amount: USD(amount)}
}

// assertPercent fails if got is not close to want.
func assertPercent(t *testing.T, what string, got Percent, want float64) {
	t.Helper()
	if math.Abs(float64(got)-want) > 1e-9 {
		t.Errorf("%s = %v, want %.4f%%", what, got, want)
	}
}
