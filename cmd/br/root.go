package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var instanceName string

var rootCmd = &cobra.Command{
	Use:           "br",
	Short:         "Drive a persistent browser session held by brd",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI, translating errors into spec §6's exit-code
// table: 1 for a legitimately-negative check, 2 for every other failure
// (no daemon, bad input, a daemon-side error, or an error that carries
// no exit code of its own), 0 otherwise.
func Execute() {
	rootCmd.PersistentFlags().StringVar(&instanceName, "name", "default", "target instance name")

	if err := rootCmd.Execute(); err != nil {
		code := 2
		if ce, ok := err.(*cliError); ok {
			code = ce.code
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(code)
	}
}

// cliError carries the exit code a failure should produce, per spec
// §6's CLI exit-code mapping.
type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

// errNoDaemon, errBadInput: per spec §6's exit-code table, the general
// command family (start/stop/list/navigation/interaction/exports/waits/
// eval/console/history) has no exit-1 case — daemon-not-running, bad
// input, and a 500 from the daemon all exit 2. Only exists/visible/
// assert have a true exit-1 ("legitimately negative"), via errNegative.
func errNoDaemon() error {
	return &cliError{code: 2, msg: "Daemon is not running"}
}

func errBadInput(msg string) error {
	return &cliError{code: 2, msg: msg}
}

func errNegative(msg string) error {
	return &cliError{code: 1, msg: msg}
}

func init() {
	rootCmd.AddCommand(startCmd, stopCmd, listCmd)
	rootCmd.AddCommand(gotoCmd, backCmd, forwardCmd, reloadCmd, clearCacheCmd)
	rootCmd.AddCommand(tabsCmd, tabsSwitchCmd)
	rootCmd.AddCommand(scrollIntoViewCmd, scrollToCmd, nextChunkCmd, prevChunkCmd)
	rootCmd.AddCommand(fillCmd, fillSecretCmd, typeCmd, pressCmd, clickCmd, fillSearchCmd, selectCmd, submitCmd)
	rootCmd.AddCommand(existsCmd, visibleCmd, countCmd, attrCmd)
	rootCmd.AddCommand(waitCmd, waitLoadCmd, waitStableCmd, waitIdleCmd)
	rootCmd.AddCommand(htmlCmd, viewTreeCmd, extractTextCmd)
	rootCmd.AddCommand(screenshotCmd, pdfCmd, downloadCmd)
	rootCmd.AddCommand(evalCmd, assertCmd)
	rootCmd.AddCommand(consoleCmd, consoleClearCmd)
	rootCmd.AddCommand(historyCmd, historyClearCmd)
}
