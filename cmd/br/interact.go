package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var scrollToPercentage float64

var scrollIntoViewCmd = &cobra.Command{
	Use:   "scroll-into-view <selector>",
	Short: "Scroll an element into view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/scroll-into-view", models.ScrollIntoViewRequest{Selector: args[0]})
	},
}

var scrollToCmd = &cobra.Command{
	Use:   "scroll-to",
	Short: "Scroll to a percentage of the page height",
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/scroll-to", models.ScrollToRequest{Percentage: scrollToPercentage})
	},
}

var nextChunkCmd = &cobra.Command{
	Use:   "next-chunk",
	Short: "Scroll forward by one viewport height",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/next-chunk", nil) },
}

var prevChunkCmd = &cobra.Command{
	Use:   "prev-chunk",
	Short: "Scroll back by one viewport height",
	RunE:  func(cmd *cobra.Command, args []string) error { return postOK("/prev-chunk", nil) },
}

var fillCmd = &cobra.Command{
	Use:   "fill <selector> <text>",
	Short: "Fill an input",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/fill", models.FillRequest{Selector: args[0], Text: args[1]})
	},
}

var fillSecretCmd = &cobra.Command{
	Use:   "fill-secret <selector> <secret>",
	Short: "Fill an input with a value masked in /html and history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/fill-secret", models.FillSecretRequest{Selector: args[0], Secret: args[1]})
	},
}

var typeCmd = &cobra.Command{
	Use:   "type <selector> <text>",
	Short: "Click then type text, character-by-character in human-like mode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/type", models.TypeRequest{Selector: args[0], Text: args[1]})
	},
}

var pressCmd = &cobra.Command{
	Use:   "press <key>",
	Short: "Press a keyboard key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/press", models.PressRequest{Key: args[0]})
	},
}

var clickCmd = &cobra.Command{
	Use:   "click <selector>",
	Short: "Click an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/click", models.ClickRequest{Selector: args[0]})
	},
}

var fillSearchSelector string

var fillSearchCmd = &cobra.Command{
	Use:   "fill-search <query>",
	Short: "Fill the page's search box and press Enter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/fill-search", models.FillSearchRequest{Query: args[0], Selector: fillSearchSelector})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.FillSearchResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Println(resp.Selector)
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <selector> <value>",
	Short: "Set a <select>'s value and dispatch a change event",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/select", models.SelectRequest{Selector: args[0], Value: args[1]})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.SelectResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Println(resp.Value)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit <selector>",
	Short: "Submit the enclosing form of an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postOK("/submit", models.SubmitRequest{Selector: args[0]})
	},
}

func init() {
	scrollToCmd.Flags().Float64Var(&scrollToPercentage, "percentage", 0, "percentage of page height to scroll to")
	fillSearchCmd.Flags().StringVar(&fillSearchSelector, "selector", "", "explicit search input selector")
}

// postOK issues a POST and maps a non-200 response to a CLI error,
// discarding the success body — used by the many side-effecting
// commands whose only success signal is {success:true}.
func postOK(path string, payload any) error {
	c, err := newClient(instanceName)
	if err != nil {
		return err
	}
	r, err := c.post(path, payload)
	if err != nil {
		return err
	}
	if r.status != 200 {
		return asCLIError(r)
	}
	return nil
}
