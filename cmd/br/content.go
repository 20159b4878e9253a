package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var htmlPage int

var htmlCmd = &cobra.Command{
	Use:   "html",
	Short: "Print the active (or given) tab's page source, secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		path := "/html"
		if cmd.Flags().Changed("page") {
			path = fmt.Sprintf("/html?page=%d", htmlPage)
		}
		r, err := c.get(path)
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		fmt.Print(r.text())
		return nil
	},
}

var viewTreeCmd = &cobra.Command{
	Use:   "view-tree",
	Short: "Print the joined accessibility/DOM tree as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.get("/tree")
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.TreeResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		out, err := json.MarshalIndent(resp.Tree, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var extractTextSelector string

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Print the visible text of the matched elements, or the body",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/extract-text", models.ExtractTextRequest{Selector: extractTextSelector})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.ExtractTextResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Println(resp.Text)
		return nil
	},
}

func init() {
	htmlCmd.Flags().IntVar(&htmlPage, "page", 0, "tab index (default: active tab)")
	extractTextCmd.Flags().StringVar(&extractTextSelector, "selector", "", "restrict to elements matching this selector")
}
