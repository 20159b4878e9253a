package main

import (
	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var waitTimeoutSeconds int

var waitCmd = &cobra.Command{
	Use:   "wait <selector>",
	Short: "Wait for a selector to become visible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/wait", models.WaitRequest{Selector: args[0], Timeout: waitTimeoutSeconds})
	},
}

var waitLoadCmd = &cobra.Command{
	Use:   "wait-load",
	Short: "Wait for the page load event",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/wait-load", nil) },
}

var waitStableCmd = &cobra.Command{
	Use:   "wait-stable",
	Short: "Wait for the DOM to stop mutating",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/wait-stable", nil) },
}

var waitIdleCmd = &cobra.Command{
	Use:   "wait-idle",
	Short: "Wait for the network to go idle",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/wait-idle", nil) },
}

func init() {
	waitCmd.Flags().IntVar(&waitTimeoutSeconds, "timeout", 0, "timeout in seconds (default 30)")
}
