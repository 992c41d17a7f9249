package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

// environment variables passed to extensions.
const (
	EnvFile     = "CAPTABLE_FILE"
	EnvCurrency = "CAPTABLE_CURRENCY"
	EnvMode     = "CAPTABLE_MODE"
	EnvVerbose  = "CAPTABLE_VERBOSE"
)

// RunExtension attempts to find and execute an external captable-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "captable-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("extension", externalCmdName).Msg("external command not found in PATH")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the global flags as environment variables.
func extensionEnv() []string {
	mode := "edit"
	if *viewOnly {
		mode = viewMode
	}
	return []string{
		EnvFile + "=" + *tableFile,
		EnvCurrency + "=" + *currency,
		EnvMode + "=" + mode,
		EnvVerbose + "=" + strconv.FormatBool(*Verbose),
	}
}
