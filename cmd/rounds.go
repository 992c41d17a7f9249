package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// roundFlags are the flags that describe a round draft.
type roundFlags struct {
	name      string
	date      string
	pre       decimalFlag
	pct       decimalFlag
	investors investorsFlag
	pool      int64
}

func (r *roundFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.name, "name", "", "Round name, e.g. Seed (required)")
	f.StringVar(&r.date, "date", "", "Round date, YYYY-MM-DD, today by default")
	f.Var(&r.pre, "pre", "Pre-money valuation, for a round defined by its valuation")
	f.Var(&r.pct, "pct", "Percentage acquired by new investors (0-100), for a round defined by dilution")
	f.Var(&r.investors, "invest", "Investment of an investor, as Name=Amount. Can be repeated")
	f.Int64Var(&r.pool, "pool", 0, "Number of shares added to the Employee Option Pool")
}

// draft applies the flags set in f on base.
func (r *roundFlags) draft(f *flag.FlagSet, base captable.RoundDraft, currency string) (captable.RoundDraft, error) {
	if r.pre.set && r.pct.set {
		return base, fmt.Errorf("-pre and -pct cannot be used together")
	}
	d := base
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			d.Name = r.name
		case "date":
			var on date.Date
			if on, err = date.Parse(r.date); err == nil {
				d.Date = on
			}
		case "pre":
			d.Model, d.PreMoney, d.PercentageAcquired = captable.PreMoney, captable.M(r.pre.value, currency), decimal.Zero
		case "pct":
			d.Model, d.PreMoney, d.PercentageAcquired = captable.Percentage, captable.Money{}, r.pct.value
		case "invest":
			d.Investors = r.investors.draft(currency)
		case "pool":
			d.OptionPoolIncrease = captable.Shares(r.pool)
		}
	})
	if err != nil {
		return d, err
	}
	if d.Date.IsZero() {
		d.Date = date.Today()
	}
	return d, nil
}

type simulateCmd struct {
	roundFlags
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "preview a funding round without committing it" }
func (*simulateCmd) Usage() string {
	return `captable simulate -name <name> (-pre <valuation> | -pct <percentage>) -invest <Name=Amount>... [-pool <shares>] [-date <date>]

  Computes the economics of a funding round and the cap table after it,
  without changing the cap table.

Usage Examples:
$ captable simulate -name Seed -pre 2000000 -invest Alice=300000 -invest Bob=200000
$ captable simulate -name "Series A" -pct 20 -invest Fund=5000000 -pool 1000000
`
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.pre.set && !c.pct.set {
		fmt.Fprintln(os.Stderr, "Error: either -pre or -pct is required.")
		return subcommands.ExitUsageError
	}
	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	d, err := c.draft(f, captable.RoundDraft{}, t.Currency())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	printMarkdown(renderer.PreviewMarkdown(t.Preview(d)))
	if err := captable.ValidateDraft(t.Shareholders(), d, t.Currency()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: this round cannot be committed: %v\n", err)
	}
	return subcommands.ExitSuccess
}

type commitCmd struct {
	roundFlags
	edit string
}

func (*commitCmd) Name() string     { return "commit" }
func (*commitCmd) Synopsis() string { return "commit a funding round to the cap table" }
func (*commitCmd) Usage() string {
	return `captable commit -name <name> (-pre <valuation> | -pct <percentage>) -invest <Name=Amount>... [-pool <shares>] [-date <date>]
captable commit -edit <round-id> [flags to change]

  Commits a funding round: the option pool increase is applied and new class A
  shares are allocated to investors, in proportion of their investment.

  With -edit, replaces the latest round. Flags that are not set keep the
  values of the edited round, -invest replaces all its investors.
`
}

func (c *commitCmd) SetFlags(f *flag.FlagSet) {
	c.roundFlags.SetFlags(f)
	f.StringVar(&c.edit, "edit", "", "Id of the latest round, to replace it")
}

func (c *commitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if status := checkWritable(c.Name()); status != subcommands.ExitSuccess {
		return status
	}
	if c.edit == "" && !c.pre.set && !c.pct.set {
		fmt.Fprintln(os.Stderr, "Error: either -pre or -pct is required.")
		return subcommands.ExitUsageError
	}

	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var base captable.RoundDraft
	if c.edit != "" {
		r, ok := t.Round(c.edit)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown round %q\n", c.edit)
			return subcommands.ExitFailure
		}
		base = r.Draft()
	}
	d, err := c.draft(f, base, t.Currency())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	round, err := t.Commit(d, c.edit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeTable(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	log.Info().Str("round", round.ID).Int64("shares", int64(round.SharesIssued)).Msg("round committed")

	printMarkdown(renderer.RoundMarkdown(round))
	return subcommands.ExitSuccess
}

type revertCmd struct{}

func (*revertCmd) Name() string     { return "revert" }
func (*revertCmd) Synopsis() string { return "undo the latest funding round" }
func (*revertCmd) Usage() string {
	return `captable revert [<round-id>]

  Undoes the latest funding round: removes the shares it issued and its option
  pool increase. Investors left without shares are removed, unless an earlier
  round refers to them. Only the latest round can be reverted.
`
}

func (*revertCmd) SetFlags(f *flag.FlagSet) {}

func (c *revertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if status := checkWritable(c.Name()); status != subcommands.ExitSuccess {
		return status
	}
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: revert expects at most one round id.")
		return subcommands.ExitUsageError
	}

	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	round, err := t.Revert(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeTable(t); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving cap table: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("✅ Reverted round %q (%s).\n", round.Name, round.ID)
	return subcommands.ExitSuccess
}
