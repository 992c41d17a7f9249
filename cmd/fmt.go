package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the cap table file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `captable fmt

  Validates the cap table file and writes it back in the canonical JSONL
  format: the table record, then shareholders, then rounds. An Employee Option
  Pool is added if the file has none. In view mode, it only validates.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := t.Check(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: the cap table is not valid: %v\n", err)
		return subcommands.ExitFailure
	}
	if *viewOnly {
		fmt.Fprintf(os.Stderr, "✅ Cap table file %q is valid.\n", *tableFile)
		return subcommands.ExitSuccess
	}
	if err := EncodeTable(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Cap table file %q has been formatted.\n", *tableFile)
	return subcommands.ExitSuccess
}
