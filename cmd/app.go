// Package cmd implements the CLI application to manage a cap table.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/captable"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// commandGroup is a named group of commands in the usage.
type commandGroup struct {
	name     string
	commands []subcommands.Command
}

var groups = []commandGroup{
	{"cap table", []subcommands.Command{&showCmd{}, &queryCmd{}, &fmtCmd{}}},
	{"shareholders", []subcommands.Command{&addHolderCmd{}, &editHolderCmd{}, &removeHolderCmd{}}},
	{"rounds", []subcommands.Command{&simulateCmd{}, &commitCmd{}, &revertCmd{}, &historyCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}, &AssistCmd{}}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, g := range groups {
		for _, cmd := range g.commands {
			c.Register(cmd, g.name)
		}
	}
}

// IsCommand reports whether name is a captable command.
func IsCommand(name string) bool {
	for _, g := range groups {
		for _, cmd := range g.commands {
			if cmd.Name() == name {
				return true
			}
		}
	}
	return false
}

// ErrReadOnly is returned by commands that would modify the cap table in view mode.
var ErrReadOnly = errors.New("the cap table is open in view mode")

const viewMode = "view"

// Config is the environment configuration of the application. Command line
// flags override it.
type Config struct {
	File        string `env:"CAPTABLE_FILE" envDefault:"captable.jsonl"`
	Currency    string `env:"CAPTABLE_CURRENCY" envDefault:"USD"`
	Mode        string `env:"CAPTABLE_MODE" envDefault:"edit"`
	Verbose     bool   `env:"CAPTABLE_VERBOSE"`
	AssistModel string `env:"CAPTABLE_ASSIST_MODEL" envDefault:"gemini-2.5-pro"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Mode != viewMode && cfg.Mode != "edit" {
		return cfg, fmt.Errorf("invalid CAPTABLE_MODE %q, want edit or view", cfg.Mode)
	}
	return cfg, nil
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	tableFile   = new(string)
	currency    = new(string)
	viewOnly    = new(bool)
	Verbose     = new(bool)
	assistModel string
)

// SetFlags declares the global flags, their default values come from cfg.
func SetFlags(f *flag.FlagSet, cfg Config) {
	f.StringVar(tableFile, "file", cfg.File, "Path to the cap table file (JSONL format)")
	f.StringVar(currency, "currency", cfg.Currency, "Currency of a new cap table")
	f.BoolVar(viewOnly, "view", cfg.Mode == viewMode, "Open the cap table in view mode, refusing any change")
	f.BoolVar(Verbose, "v", cfg.Verbose, "Verbose logging")
	assistModel = cfg.AssistModel
}

// SetupLogging configures the global logger, on stderr.
func SetupLogging() {
	level := zerolog.WarnLevel
	if *Verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: !isTerminal(os.Stderr)}).
		With().Timestamp().Logger()
}

// DecodeTable loads the cap table from the application's file. If the file
// does not exist it returns a new empty cap table.
func DecodeTable() (*captable.Table, error) {
	t, err := captable.LoadTable(*tableFile, *currency)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", *tableFile).Msg("cap table does not exist, starting an empty one")
		return captable.NewTable(*currency), nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str("file", *tableFile).Int("shareholders", len(t.Shareholders())).Int("rounds", len(t.Rounds())).Msg("cap table loaded")
	return t, nil
}

// EncodeTable saves the cap table into the application's file.
func EncodeTable(t *captable.Table) error {
	if *viewOnly {
		return ErrReadOnly
	}
	if err := captable.SaveTable(*tableFile, t); err != nil {
		return err
	}
	log.Debug().Str("file", *tableFile).Msg("cap table saved")
	return nil
}

// checkWritable reports an error to the user in view mode.
func checkWritable(name string) subcommands.ExitStatus {
	if *viewOnly {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, ErrReadOnly)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// printMarkdown prints md on stdout, rendered for the terminal if stdout is one.
func printMarkdown(md string) {
	if !isTerminal(os.Stdout) {
		fmt.Print(md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Warn().Err(err).Msg("cannot render markdown")
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
