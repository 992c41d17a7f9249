package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/google/subcommands"
)

type addHolderCmd struct {
	name     string
	category string
	classA   int64
	classB   int64
}

func (*addHolderCmd) Name() string     { return "add-holder" }
func (*addHolderCmd) Synopsis() string { return "add a shareholder to the cap table" }
func (*addHolderCmd) Usage() string {
	return `captable add-holder -name <name> -category <category> [-a <shares>] [-b <shares>]

  Adds a shareholder to the ledger:
  - category: founder, investor or employee.
  - a: number of class A shares (1 vote per share).
  - b: number of class B shares (10 votes per share), founders only.

  The shareholder must hold some shares. The Employee Option Pool already
  exists, use edit-holder to change its size.
`
}

func (c *addHolderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Shareholder's name (required)")
	f.StringVar(&c.category, "category", "", "Shareholder's category: founder, investor or employee (required)")
	f.Int64Var(&c.classA, "a", 0, "Number of class A shares")
	f.Int64Var(&c.classB, "b", 0, "Number of class B shares")
}

func (c *addHolderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if status := checkWritable(c.Name()); status != subcommands.ExitSuccess {
		return status
	}
	category, err := captable.ParseCategory(c.category)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	sh, err := t.AddShareholder(captable.ShareholderInput{
		Name:     c.name,
		Category: category,
		ClassA:   captable.Shares(c.classA),
		ClassB:   captable.Shares(c.classB),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeTable(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Added %s %q with id %s.\n", sh.Category, sh.Name, sh.ID)
	return subcommands.ExitSuccess
}

type editHolderCmd struct {
	id       string
	name     string
	category string
	classA   int64
	classB   int64
}

func (*editHolderCmd) Name() string     { return "edit-holder" }
func (*editHolderCmd) Synopsis() string { return "edit a shareholder of the cap table" }
func (*editHolderCmd) Usage() string {
	return `captable edit-holder -id <id> [-name <name>] [-category <category>] [-a <shares>] [-b <shares>]

  Changes the fields of an existing shareholder, fields without flag are kept.

  The Employee Option Pool (id employee-option-pool) only accepts -a, and can
  be set to zero.
`
}

func (c *editHolderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Shareholder's id (required)")
	f.StringVar(&c.name, "name", "", "New name")
	f.StringVar(&c.category, "category", "", "New category: founder, investor or employee")
	f.Int64Var(&c.classA, "a", 0, "New number of class A shares")
	f.Int64Var(&c.classB, "b", 0, "New number of class B shares")
}

func (c *editHolderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if status := checkWritable(c.Name()); status != subcommands.ExitSuccess {
		return status
	}
	if c.id == "" {
		fmt.Fprintln(os.Stderr, "Error: -id is required.")
		return subcommands.ExitUsageError
	}

	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	sh, ok := t.Shareholders().Find(c.id)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: %q: %v\n", c.id, captable.ErrUnknownShareholder)
		return subcommands.ExitFailure
	}

	in := captable.ShareholderInput{Name: sh.Name, Category: sh.Category, ClassA: sh.ClassA, ClassB: sh.ClassB}
	var parseErr error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			in.Name = c.name
		case "category":
			in.Category, parseErr = captable.ParseCategory(c.category)
		case "a":
			in.ClassA = captable.Shares(c.classA)
		case "b":
			in.ClassB = captable.Shares(c.classB)
		}
	})
	if parseErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", parseErr)
		return subcommands.ExitUsageError
	}

	sh, err = t.UpdateShareholder(c.id, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeTable(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Updated %q: %s class A, %s class B shares.\n", sh.Name, sh.ClassA, sh.ClassB)
	return subcommands.ExitSuccess
}

type removeHolderCmd struct{}

func (*removeHolderCmd) Name() string     { return "remove-holder" }
func (*removeHolderCmd) Synopsis() string { return "remove a shareholder from the cap table" }
func (*removeHolderCmd) Usage() string {
	return `captable remove-holder <id>

  Removes a shareholder from the ledger. The Employee Option Pool cannot be
  removed.
`
}

func (*removeHolderCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeHolderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if status := checkWritable(c.Name()); status != subcommands.ExitSuccess {
		return status
	}
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: remove-holder expects exactly one shareholder id.")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	sh, _ := t.Shareholders().Find(id)
	if err := t.RemoveShareholder(id); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeTable(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Removed %q.\n", sh.Name)
	return subcommands.ExitSuccess
}
