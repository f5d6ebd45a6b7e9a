package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/rs/zerolog/log"
)

const (
	EnvStore     = "DTR_STORE"
	EnvCurrency  = "DTR_CURRENCY"
	EnvPolicy    = "DTR_POLICY"
	EnvVerbose   = "DTR_VERBOSE"
	EnvLogFormat = "DTR_LOG_FORMAT"
)

// RunExtension attempts to find and execute an external dtr-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found or executed.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "dtr-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Debug().Err(err).Str("command", externalCmdName).Msg("no extension")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// global flags are passed as environment variables
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, EnvStore+"="+*storeURI)
	cmd.Env = append(cmd.Env, EnvCurrency+"="+*currency)
	cmd.Env = append(cmd.Env, EnvPolicy+"="+*policy)
	cmd.Env = append(cmd.Env, EnvLogFormat+"="+*logFormat)
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
