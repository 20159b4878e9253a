package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	consoleType  string
	consoleTab   int
	consoleClear bool
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Print captured console/exception entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		path := "/console?"
		if consoleType != "" {
			path += "type=" + consoleType + "&"
		}
		if cmd.Flags().Changed("tab") {
			path += fmt.Sprintf("tab=%d&", consoleTab)
		}
		if consoleClear {
			path += "clear=true&"
		}
		r, err := c.get(path)
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		fmt.Println(r.text())
		return nil
	},
}

var consoleClearCmd = &cobra.Command{
	Use:   "console-clear",
	Short: "Clear all captured console entries",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/console/clear", nil) },
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the action history",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.get("/history")
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		fmt.Println(r.text())
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "history-clear",
	Short: "Clear the action history",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/history/clear", nil) },
}

func init() {
	consoleCmd.Flags().StringVar(&consoleType, "type", "", "comma-separated console type filter")
	consoleCmd.Flags().IntVar(&consoleTab, "tab", 0, "restrict to one tab index")
	consoleCmd.Flags().BoolVar(&consoleClear, "clear", false, "clear entries after reading")
}
