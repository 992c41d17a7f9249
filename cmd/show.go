package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the current cap table" }
func (*showCmd) Usage() string {
	return `captable show

  Displays every shareholder with shares: their class A and class B shares,
  their ownership and their voting power.
`
}

func (*showCmd) SetFlags(f *flag.FlagSet) {}

func (*showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SnapshotMarkdown(t.Snapshot()))
	return subcommands.ExitSuccess
}

type historyCmd struct {
	round string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list committed funding rounds" }
func (*historyCmd) Usage() string {
	return `captable history [-round <id>]

  Lists the committed funding rounds, oldest first. With -round, displays the
  details of one round and its investors.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.round, "round", "", "Id of a round to display in details")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.round == "" {
		printMarkdown(renderer.HistoryMarkdown(t.Rounds()))
		return subcommands.ExitSuccess
	}
	r, ok := t.Round(c.round)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown round %q\n", c.round)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RoundMarkdown(r))
	return subcommands.ExitSuccess
}

type queryCmd struct {
	roundFlags
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "extract figures from the cap table with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `captable query [round flags] <jsonpath>

  Evaluates a JSONPath expression on the JSON form of the cap table snapshot
  and prints the result as JSON. With round flags (see simulate) the
  expression is evaluated on the preview of that round instead.

Usage Examples:
$ captable query '$.totalShares'
$ captable query '$.holders[?(@.category=="Investor")].name'
$ captable query -name Seed -pre 2000000 -invest Alice=500000 '$.preview.sharePrice.amount'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) { c.roundFlags.SetFlags(f) }

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: query expects exactly one JSONPath expression.")
		return subcommands.ExitUsageError
	}
	t, err := DecodeTable()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	snap := t.Snapshot()
	preview := false
	f.Visit(func(*flag.Flag) { preview = true })
	if preview {
		d, err := c.draft(f, captable.RoundDraft{}, t.Currency())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		snap = t.Preview(d)
	}

	// jsonpath works on generic values.
	data, err := json.Marshal(snap)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding the snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding the snapshot: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := jsonpath.Get(f.Arg(0), v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding the result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
