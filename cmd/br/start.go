package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/use-agent/br/registry"
)

var (
	startHeadless     bool
	startViewport     string
	startAdBlock      bool
	startAdBlockBase  string
	startAdBlockLists string
	startForeground   bool
	startHumanLike    bool
	stopAll           bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a named browser instance",
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a named browser instance",
	RunE:  runStop,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered browser instances",
	RunE:    runList,
}

func init() {
	startCmd.Flags().BoolVar(&startHeadless, "headless", true, "run Chromium headless")
	startCmd.Flags().StringVar(&startViewport, "viewport", "1280x720", "viewport WxH")
	startCmd.Flags().BoolVar(&startAdBlock, "adblock", false, "enable the ad-blocker")
	startCmd.Flags().StringVar(&startAdBlockBase, "adblock-base", "adsandtrackers", "none|adsandtrackers|full|ads")
	startCmd.Flags().StringVar(&startAdBlockLists, "adblock-lists", "", "comma-separated filter list paths/URLs")
	startCmd.Flags().BoolVar(&startForeground, "foreground", false, "run in the foreground instead of detaching")
	startCmd.Flags().BoolVar(&startHumanLike, "humanlike", false, "enable human-like interaction pacing")

	stopCmd.Flags().BoolVar(&stopAll, "all", false, "stop every registered instance")
}

func runStart(cmd *cobra.Command, args []string) error {
	if _, ok, _ := registry.Lookup(instanceName); ok {
		return errBadInput(fmt.Sprintf("instance %q is already running", instanceName))
	}

	width, height, err := parseViewport(startViewport)
	if err != nil {
		return errBadInput(err.Error())
	}

	if err := validateAdBlockLists(startAdBlockLists); err != nil {
		return errBadInput(err.Error())
	}

	brdPath, err := brdBinaryPath()
	if err != nil {
		return errBadInput(err.Error())
	}

	env := append(os.Environ(),
		"BR_INSTANCE="+instanceName,
		"BR_HEADLESS="+strconv.FormatBool(startHeadless),
		"BR_VIEWPORT_WIDTH="+strconv.Itoa(width),
		"BR_VIEWPORT_HEIGHT="+strconv.Itoa(height),
		"BR_ADBLOCK="+strconv.FormatBool(startAdBlock),
		"BR_ADBLOCK_BASE="+startAdBlockBase,
		"BR_ADBLOCK_LISTS="+startAdBlockLists,
		"BR_HUMANLIKE="+strconv.FormatBool(startHumanLike),
	)

	proc := exec.Command(brdPath)
	proc.Env = env

	if startForeground {
		proc.Stdout = os.Stdout
		proc.Stderr = os.Stderr
		proc.Stdin = os.Stdin
		return proc.Run()
	}

	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err == nil {
		proc.Stdout = devnull
		proc.Stderr = devnull
	}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("start brd: %w", err)
	}
	_ = proc.Process.Release()

	entry, err := waitForRegistration(instanceName, 10*time.Second)
	if err != nil {
		return err
	}

	fmt.Printf("instance %q started on port %d (pid %d)\n", instanceName, entry.Port, entry.PID)
	return nil
}

// waitForRegistration polls the registry until the daemon has
// registered itself, or returns errNoDaemon if it never does.
func waitForRegistration(name string, timeout time.Duration) (registry.Entry, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if entry, ok, _ := registry.Lookup(name); ok {
			return entry, nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return registry.Entry{}, errNoDaemon()
}

func runStop(cmd *cobra.Command, args []string) error {
	if stopAll {
		entries, err := registry.Read()
		if err != nil {
			return err
		}
		for name := range entries {
			if err := stopOne(name); err != nil {
				fmt.Fprintf(os.Stderr, "stop %s: %v\n", name, err)
			}
		}
		return nil
	}
	return stopOne(instanceName)
}

func stopOne(name string) error {
	entry, ok, err := registry.Lookup(name)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("instance %q is not running\n", name)
		return nil
	}

	c, err := newClient(name)
	if err == nil {
		_, _ = c.post("/shutdown", nil)
	}
	_ = registry.Unregister(name)
	fmt.Printf("instance %q stopped (was pid %d, port %d)\n", name, entry.PID, entry.Port)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	entries, err := registry.Read()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no running instances")
		return nil
	}
	fmt.Printf("%-20s %-8s %s\n", "NAME", "PORT", "PID")
	for name, e := range entries {
		fmt.Printf("%-20s %-8d %d\n", name, e.Port, e.PID)
	}
	return nil
}

func parseViewport(v string) (int, int, error) {
	parts := strings.SplitN(v, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid viewport %q, expected WxH", v)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid viewport width: %w", err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid viewport height: %w", err)
	}
	return w, h, nil
}

func validateAdBlockLists(csv string) error {
	if csv == "" {
		return nil
	}
	for _, item := range strings.Split(csv, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.HasPrefix(item, "http://") || strings.HasPrefix(item, "https://") {
			continue
		}
		if _, err := os.Stat(item); err != nil {
			return fmt.Errorf("adblock list path %q does not exist", item)
		}
	}
	return nil
}

// brdBinaryPath locates the brd executable alongside the running br
// binary, falling back to $PATH.
func brdBinaryPath() (string, error) {
	self, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(self), "brd")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return exec.LookPath("brd")
}
