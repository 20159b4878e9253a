package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var assertExpected string
var assertMessage string

var evalCmd = &cobra.Command{
	Use:   "eval <script>",
	Short: "Evaluate a script in the active page and print its JSON result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/eval", models.EvalRequest{Script: args[0]})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.EvalResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		out, err := json.Marshal(resp.Result)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var assertCmd = &cobra.Command{
	Use:   "assert <script>",
	Short: "Evaluate a script and assert its result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		req := models.AssertRequest{Script: args[0], Message: assertMessage}
		if cmd.Flags().Changed("expected") {
			req.Expected = &assertExpected
		}
		r, err := c.post("/assert", req)
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.AssertResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Printf("actual: %s\n", resp.Actual)
		if !resp.Pass {
			return errNegative(resp.Message)
		}
		return nil
	},
}

func init() {
	assertCmd.Flags().StringVar(&assertExpected, "expected", "", "expected value (string-equal); omit to check truthiness")
	assertCmd.Flags().StringVar(&assertMessage, "message", "", "custom failure message")
}
