package cmd

import (
	"context"
	"flag"
	"io"
	"os"
	"testing"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

// withGlobals points the global flags to a cap table file for the duration of the test.
func withGlobals(t *testing.T, file string) {
	t.Helper()
	oldFile, oldCurrency, oldView, oldVerbose := *tableFile, *currency, *viewOnly, *Verbose
	*tableFile, *currency, *viewOnly, *Verbose = file, "USD", false, false
	t.Cleanup(func() {
		*tableFile, *currency, *viewOnly, *Verbose = oldFile, oldCurrency, oldView, oldVerbose
	})
}

// run parses args for cmd, executes it and returns its status and what it
// printed on stdout.
func run(t *testing.T, cmd subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s: invalid arguments %q: %v", cmd.Name(), args, err)
	}

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	stdout := os.Stdout
	os.Stdout = w
	done := make(chan string)
	go func() {
		data, _ := io.ReadAll(r)
		done <- string(data)
	}()

	status := cmd.Execute(context.Background(), f)

	os.Stdout = stdout
	w.Close()
	return status, <-done
}

// load reads the cap table file of the test.
func load(t *testing.T) *captable.Table {
	t.Helper()
	tbl, err := captable.LoadTable(*tableFile, "USD")
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	return tbl
}
