package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/models"
)

var (
	screenshotFullPage bool
	screenshotPath     string
	pdfFormat          string
	pdfPath            string
	downloadOutput     string
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the active tab to a PNG file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/screenshot?fullPage=%t", screenshotFullPage)
		if screenshotPath != "" {
			path += "&path=" + screenshotPath
		}
		return getPrintPath(path)
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Export the active tab to a PDF file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/pdf?format=%s", pdfFormat)
		if pdfPath != "" {
			path += "&path=" + pdfPath
		}
		return getPrintPath(path)
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <selector>",
	Short: "Download the href/src target of an element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(instanceName)
		if err != nil {
			return err
		}
		r, err := c.post("/download", models.DownloadRequest{Selector: args[0], Output: downloadOutput})
		if err != nil {
			return err
		}
		if r.status != 200 {
			return asCLIError(r)
		}
		var resp models.DownloadResponse
		if err := r.decode(&resp); err != nil {
			return err
		}
		fmt.Printf("%s (%d bytes) <- %s\n", resp.Path, resp.Size, resp.URL)
		return nil
	},
}

func init() {
	screenshotCmd.Flags().BoolVar(&screenshotFullPage, "full-page", false, "capture the full scrollable page")
	screenshotCmd.Flags().StringVar(&screenshotPath, "path", "", "output path (default: temp dir)")
	pdfCmd.Flags().StringVar(&pdfFormat, "format", "Letter", "paper format")
	pdfCmd.Flags().StringVar(&pdfPath, "path", "", "output path (default: temp dir)")
	downloadCmd.Flags().StringVar(&downloadOutput, "output", "", "output path (default: inferred from URL)")
}

// getPrintPath issues a GET whose plain-text body is the on-disk output
// path (spec §6's /screenshot and /pdf contract) and prints it.
func getPrintPath(path string) error {
	c, err := newClient(instanceName)
	if err != nil {
		return err
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
}
