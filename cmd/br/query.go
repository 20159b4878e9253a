package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var existsCmd = &cobra.Command{
	Use:   "exists <selector>",
	Short: "Check whether a selector resolves to an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return boolCheck("/exists", models.ExistsRequest{Selector: args[0]})
	},
}

var visibleCmd = &cobra.Command{
	Use:   "visible <selector>",
	Short: "Check whether a selector's element is visible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return boolCheck("/visible", models.VisibleRequest{Selector: args[0]})
	},
}

var countCmd = &cobra.Command{
	Use:   "count <selector>",
	Short: "Count elements matching a selector",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/count", models.CountRequest{Selector: args[0]})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.CountResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Println(resp.Count)
		return nil
	},
}

var attrCmd = &cobra.Command{
	Use:   "attr <selector> <attribute>",
	Short: "Read an element attribute",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/attr", models.AttrRequest{Selector: args[0], Attribute: args[1]})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.AttrResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Println(resp.Value)
		return nil
	},
}

// boolCheck implements spec §6's "check" exit-code family: result=true
// exits 0, result=false exits 1, any transport/driver/daemon error exits
// 2 via the already-mapped cliError from newClient/asCLIError.
func boolCheck(path string, payload any) error {
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
	var resp models.BoolResultResponse
	if err := r.decode(&resp); err != nil {
		return err
	}
	fmt.Println(resp.Result)
	if !resp.Result {
		return errNegative("result=false")
	}
	return nil
}
