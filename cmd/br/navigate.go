package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var reloadHard bool

var gotoCmd = &cobra.Command{
	Use:   "navigate <url>",
	Short: "Navigate the active tab to a URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/goto", models.GotoRequest{URL: args[0]})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		return nil
	},
}

var backCmd = &cobra.Command{
	Use:   "back",
	Short: "Go back in the active tab's history",
	RunE:  simplePostPrintURL("/back"),
}

var forwardCmd = &cobra.Command{
	Use:   "forward",
	Short: "Go forward in the active tab's history",
	RunE:  simplePostPrintURL("/forward"),
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload the active tab",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/reload", models.ReloadRequest{Hard: reloadHard})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		return nil
	},
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Clear the browser cache",
	RunE:  simplePost("/clear-cache"),
}

func init() {
	reloadCmd.Flags().BoolVar(&reloadHard, "hard", false, "bypass cache on reload")
}

// simplePost issues an unparameterized POST and maps non-200 to a CLI error.
func simplePost(path string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post(path, nil)
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		return nil
	}
}

// simplePostPrintURL issues an unparameterized POST and prints the
// returned {url} on success.
func simplePostPrintURL(path string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post(path, nil)
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.URLResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Println(resp.URL)
		return nil
	}
}
