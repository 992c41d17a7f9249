// Package captable models the capitalization table of a private company and
// the funding rounds that change it.
//
// A [Table] holds the current shareholders as a [Ledger] together with the
// history of committed [FundingRound] values. The package is split in two
// engines:
//   - the snapshot calculator ([CalculateSnapshot]) is a pure function that
//     derives ownership, voting power and the economics of a draft round
//     without touching its inputs.
//   - the round engine ([CommitRound], [RevertRound]) applies a round to the
//     ledger and undoes the latest one, keeping every share that was issued
//     traceable to the round that issued it.
//
// Tables are stored as human readable JSONL files (see [EncodeTable] and
// [DecodeTable]) so that they can be versioned and reviewed like source code.
//
// This package serves as the foundational logic for the `captable`
// command-line tool.
package captable
