package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/captable"
	"google.golang.org/genai"
)

func testSource(t *testing.T) TableSource {
	t.Helper()
	tbl := captable.NewTable("USD")
	if _, err := tbl.AddShareholder(captable.ShareholderInput{Name: "Founder A", Category: captable.Founder, ClassB: 8_000_000}); err != nil {
		t.Fatal(err)
	}
	return func() (*captable.Table, error) { return tbl, nil }
}

func call(t *testing.T, lib Library, name string, args map[string]any) map[string]any {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "call-1", Name: name, Args: args})
	if resp.ID != "call-1" || resp.Name != name {
		t.Errorf("response is for %s/%s, want call-1/%s", resp.ID, resp.Name, name)
	}
	return resp.Response
}

func TestTools(t *testing.T) {
	lib := NewLibrary(Tools(testSource(t)))

	t.Run("cap_table", func(t *testing.T) {
		out, _ := call(t, lib, "cap_table", nil)["output"].(string)
		if !strings.Contains(out, "Founder A") || !strings.Contains(out, "100.00%") {
			t.Errorf("cap_table output = %q", out)
		}
	})

	t.Run("round_history", func(t *testing.T) {
		out, _ := call(t, lib, "round_history", nil)["output"].(string)
		if !strings.Contains(out, "No funding round") {
			t.Errorf("round_history output = %q", out)
		}
	})

	t.Run("simulate_round", func(t *testing.T) {
		resp := call(t, lib, "simulate_round", map[string]any{
			"name":      "Seed",
			"pre_money": 2_000_000.0,
			"investors": []any{
				map[string]any{"name": "Alice", "amount": 500_000.0},
			},
		})
		out, _ := resp["output"].(string)
		for _, want := range []string{"Round Preview: Seed", "$0.25", "2,000,000"} {
			if !strings.Contains(out, want) {
				t.Errorf("simulate_round output does not contain %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "could not be committed") {
			t.Errorf("a valid round should not report errors:\n%s", out)
		}
	})

	t.Run("simulate_round percentage", func(t *testing.T) {
		resp := call(t, lib, "simulate_round", map[string]any{
			"name":       "Seed",
			"model":      "percentage",
			"percentage": 100.0,
			"investors":  []any{map[string]any{"name": "Alice", "amount": 500_000.0}},
		})
		out, _ := resp["output"].(string)
		if !strings.Contains(out, "could not be committed") {
			t.Errorf("an invalid round should report errors:\n%s", out)
		}
	})

	t.Run("simulate_round bad arguments", func(t *testing.T) {
		resp := call(t, lib, "simulate_round", map[string]any{"name": "Seed", "investors": "Alice"})
		if _, ok := resp["error"]; !ok {
			t.Errorf("simulate_round should fail on invalid investors, got %v", resp)
		}
	})

	t.Run("documentation", func(t *testing.T) {
		out, _ := call(t, lib, "documentation", map[string]any{"topic": "valuation"})["output"].(string)
		if !strings.Contains(out, "# Valuation models") {
			t.Errorf("documentation output = %q", out)
		}
		if _, ok := call(t, lib, "documentation", map[string]any{})["error"]; !ok {
			t.Error("documentation without topic should fail")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, ok := call(t, lib, "transfer_shares", nil)["error"]; !ok {
			t.Error("unknown functions should fail")
		}
	})
}

func TestTools_LoadError(t *testing.T) {
	lib := NewLibrary(Tools(func() (*captable.Table, error) { return nil, errors.New("disk on fire") }))
	resp := call(t, lib, "cap_table", nil)
	if resp["error"] != "disk on fire" {
		t.Errorf("error = %v, want the load error", resp["error"])
	}
}

func TestNewAnalyst(t *testing.T) {
	e := NewAnalyst("some-model", testSource(t))
	if e.ModelName != "some-model" {
		t.Errorf("ModelName = %q", e.ModelName)
	}
	decls := e.Config.Tools[0].FunctionDeclarations
	if len(decls) != 4 {
		t.Errorf("got %d declarations, want 4", len(decls))
	}
	f := newFacilitator("some-model", e)
	if got := f.Config.Tools[0].FunctionDeclarations[0].Name; got != "Analyst" {
		t.Errorf("facilitator tool = %q, want Analyst", got)
	}
}
