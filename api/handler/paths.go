package handler

import (
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// outputDir is $TMP/br_cli, created on first use (spec §6's on-disk
// output paths).
func outputDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "br_cli")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// domainOf extracts the host component from a page URL for use in
// generated filenames, falling back to "page" for non-http(s) URLs
// (data:, about:blank, ...).
func domainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "page"
	}
	return sanitizeFilenamePart(u.Hostname())
}

func sanitizeFilenamePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}

// defaultScreenshotPath builds $TMP/br_cli/shot-<domain>-<epoch>.png.
func defaultScreenshotPath(pageURL string) (string, error) {
	dir, err := outputDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shot-"+domainOf(pageURL)+"-"+epoch()+".png"), nil
}

// defaultPDFPath builds $TMP/br_cli/page-<domain>-<epoch>.pdf.
func defaultPDFPath(pageURL string) (string, error) {
	dir, err := outputDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "page-"+domainOf(pageURL)+"-"+epoch()+".pdf"), nil
}

// defaultDownloadPath builds $TMP/br_cli/<inferred-filename>, falling
// back to a generic name when the source URL carries none.
func defaultDownloadPath(sourceURL string) (string, error) {
	dir, err := outputDir()
	if err != nil {
		return "", err
	}
	name := "download"
	if u, err := url.Parse(sourceURL); err == nil {
		if base := filepath.Base(u.Path); base != "." && base != "/" && base != "" {
			name = base
		}
	}
	return filepath.Join(dir, name), nil
}

func epoch() string {
	return strconv.FormatInt(time.Now().Unix(), 10)
}
