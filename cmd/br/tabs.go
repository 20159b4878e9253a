package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "List open tabs",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.get("/tabs")
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var tabs []models.Tab
		if err := r.decode(&tabs); err != nil {
			return err
		}
		for _, t := range tabs {
			marker := " "
			if t.IsActive {
				marker = "*"
			}
			fmt.Printf("%s %d  %-30s %s\n", marker, t.Index, t.Title, t.URL)
		}
		return nil
	},
}

var tabsSwitchCmd = &cobra.Command{
	Use:   "tabs-switch <index>",
	Short: "Switch the active tab",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return errBadInput("index must be an integer")
		}
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/tabs/switch", models.TabSwitchRequest{Index: idx})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		return nil
	},
}
