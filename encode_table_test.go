package captable

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/captable/date"
	"github.com/google/go-cmp/cmp"
)

func TestEncodeTable(t *testing.T) {
	withSequentialIDs(t)
	tbl := NewTable("USD")
	if _, err := tbl.AddShareholder(ShareholderInput{Name: "Founder A", Category: Founder, ClassB: 8_000_000}); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.AddShareholder(ShareholderInput{Name: "Erin", Category: Employee, ClassA: 1_000}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := EncodeTable(&buf, tbl); err != nil {
		t.Fatalf("EncodeTable() error = %v", err)
	}
	want := `{"record":"table","currency":"USD"}
{"record":"shareholder","id":"employee-option-pool","name":"Employee Option Pool","category":"Employee Option Pool"}
{"record":"shareholder","id":"id-1","name":"Founder A","category":"Founder","classB":8000000}
{"record":"shareholder","id":"id-2","name":"Erin","category":"Employee","classA":1000}
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("EncodeTable() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoadTable(t *testing.T) {
	withSequentialIDs(t)
	tbl := NewTable("USD")
	if _, err := tbl.AddShareholder(ShareholderInput{Name: "Founder A", Category: Founder, ClassA: 10, ClassB: 8_000_000}); err != nil {
		t.Fatal(err)
	}
	seed := preMoneyDraft("Seed", 2_000_000, investor("Alice", 300_000), investor("Bob", 200_000))
	seed.OptionPoolIncrease = 400_000
	if _, err := tbl.Commit(seed, ""); err != nil {
		t.Fatal(err)
	}
	seriesA := RoundDraft{
		Name:               "Series A",
		Date:               date.New(2026, 1, 15),
		Model:              Percentage,
		PercentageAcquired: D(12.5),
		Investors:          []DraftInvestor{investor("Carol", 1_000_000), investor("alice", 250_000)},
	}
	if _, err := tbl.Commit(seriesA, ""); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "sub", "captable.jsonl")
	if err := SaveTable(path, tbl); err != nil {
		t.Fatalf("SaveTable() error = %v", err)
	}
	got, err := LoadTable(path, "EUR")
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	if got.Currency() != "USD" {
		t.Errorf("Currency() = %q, the file currency should win", got.Currency())
	}
	if diff := cmp.Diff(tbl.Shareholders(), got.Shareholders()); diff != "" {
		t.Errorf("shareholders mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(tbl.Rounds(), got.Rounds(), cmpOpts); diff != "" {
		t.Errorf("rounds mismatch (-want +got):\n%s", diff)
	}

	// the loaded table can revert what the saved one committed.
	if _, err := got.Revert(""); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if _, err := got.Revert(""); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if got.Snapshot().TotalShares != 8_000_010 {
		t.Errorf("TotalShares = %d after reverting all rounds, want 8000010", got.Snapshot().TotalShares)
	}
}

func TestLoadTable_Missing(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.jsonl"), "USD")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadTable() error = %v, want fs.ErrNotExist", err)
	}
}

func TestDecodeTable(t *testing.T) {
	t.Run("without header nor pool", func(t *testing.T) {
		in := `{"record":"shareholder","id":"f","name":"F","category":"founder","classB":10}` + "\n\n"
		tbl, err := DecodeTable(strings.NewReader(in))
		if err != nil {
			t.Fatalf("DecodeTable() error = %v", err)
		}
		want := Ledger{{ID: "f", Name: "F", Category: Founder, ClassB: 10}, newPool()}
		if diff := cmp.Diff(want, tbl.Shareholders()); diff != "" {
			t.Errorf("ledger mismatch (-want +got):\n%s", diff)
		}
		if tbl.Currency() != "" {
			t.Errorf("Currency() = %q, want none", tbl.Currency())
		}
	})

	errorCases := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"invalid json", `{"record":`, "line 1: could not identify record"},
		{"unknown record", `{"record":"transfer"}`, `line 1: unknown record "transfer"`},
		{"missing id", `{"record":"shareholder","name":"F","category":"founder"}`, "has no id"},
		{"duplicate id", `{"record":"shareholder","id":"f","name":"F","category":"founder"}` + "\n" +
			`{"record":"shareholder","id":"f","name":"G","category":"founder"}`, `line 2: duplicate shareholder id "f"`},
		{"unknown category", `{"record":"shareholder","id":"f","name":"F","category":"advisor"}`, "unknown shareholder category"},
		{"unknown model", `{"record":"round","id":"r","name":"R","model":"convertible"}`, "unknown valuation model"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTable(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("DecodeTable() error = %v, want it to contain %q", err, tc.wantErr)
			}
		})
	}
}
