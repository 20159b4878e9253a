package instance

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/models"
)

func TestResourceSpecsForAdBlockLevel(t *testing.T) {
	assert.Nil(t, ResourceSpecsForAdBlockLevel("none"))
	assert.Nil(t, ResourceSpecsForAdBlockLevel("unknown"))
	assert.Equal(t, []driver.ResourceBlockSpec{"Image", "Script"}, ResourceSpecsForAdBlockLevel("adsandtrackers"))
	assert.Equal(t, []driver.ResourceBlockSpec{"Image", "Script", "Media"}, ResourceSpecsForAdBlockLevel("ads"))
	assert.Equal(t, []driver.ResourceBlockSpec{"Image", "Script", "Media", "Stylesheet", "Font"}, ResourceSpecsForAdBlockLevel("full"))
}

func TestClassifyConsoleEvent(t *testing.T) {
	cases := map[string]models.ConsoleLogType{
		"warning":   models.ConsoleWarning,
		"error":     models.ConsoleError,
		"info":      models.ConsoleInfo,
		"debug":     models.ConsoleDebug,
		"pageerror": models.ConsolePageError,
		"log":       models.ConsoleLog,
		"something": models.ConsoleLog,
	}
	for in, want := range cases {
		assert.Equal(t, want, classifyConsoleEvent(in))
	}
}

func TestDaemonAttachPageForwardsConsoleEvents(t *testing.T) {
	fb := driver.NewFakeBrowser()
	page, err := fb.NewPage(nil)
	require.NoError(t, err)
	fp := page.(*driver.FakePage)

	d := &Daemon{State: NewState(), browser: fb}
	d.attachPage(page, 0)

	fp.Emit(driver.ConsoleEvent{Type: "error", Text: "boom", URL: "about:blank"})

	require.Eventually(t, func() bool {
		return len(d.State.ConsoleFiltered(nil, false)) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestDaemonShutdownAndExitCode(t *testing.T) {
	fb := driver.NewFakeBrowser()
	d := &Daemon{State: NewState(), browser: fb}

	require.False(t, d.ShuttingDown())
	require.NoError(t, d.Shutdown())
	assert.True(t, fb.Closed)
	assert.True(t, d.ShuttingDown())
	assert.Equal(t, 0, d.ExitCodeOnBrowserGone())
}

func TestDaemonPID(t *testing.T) {
	fb := driver.NewFakeBrowser()
	d := &Daemon{State: NewState(), browser: fb}
	assert.Equal(t, 424242, d.PID())
}

func TestSwallowBrokenPipe(t *testing.T) {
	assert.True(t, SwallowBrokenPipe(syscall.EPIPE))
	assert.False(t, SwallowBrokenPipe(errors.New("wrap: "+syscall.EPIPE.Error())))
	assert.False(t, SwallowBrokenPipe(nil))
	assert.False(t, SwallowBrokenPipe(errors.New("boom")))
}
