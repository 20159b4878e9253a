package instance

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/br/driver"
	"github.com/use-agent/br/models"
)

func TestSecretMasking(t *testing.T) {
	s := NewState()
	s.AddSecret("hunter2")

	html := `<input value="hunter2"><p>hunter2 appears twice: hunter2</p>`
	masked := s.MaskSecrets(html)

	assert.NotContains(t, masked, "hunter2")
	assert.Contains(t, masked, `value="***"`)
}

func TestConsoleRingBound(t *testing.T) {
	s := NewState()
	for i := 0; i < 1500; i++ {
		s.PushConsole(models.ConsoleLogEntry{Type: models.ConsoleLog, Text: fmt.Sprintf("msg-%d", i)})
	}

	all := s.ConsoleFiltered(nil, false)
	require.Len(t, all, 1000)
	assert.Equal(t, "msg-500", all[0].Text)
	assert.Equal(t, "msg-1499", all[len(all)-1].Text)
}

func TestActiveTabLifecycle(t *testing.T) {
	s := NewState()
	_, _, err := s.ActivePage()
	assert.ErrorIs(t, err, ErrNoActiveTab)

	p1 := driver.NewFakePage("about:blank")
	idx := s.AddPage(p1)
	assert.Equal(t, 0, idx)

	active, activeIdx, err := s.ActivePage()
	require.NoError(t, err)
	assert.Equal(t, 0, activeIdx)
	assert.Equal(t, p1, active)

	p2 := driver.NewFakePage("about:blank")
	s.AddPage(p2)

	require.NoError(t, s.ClosePage(0))
	tabs := s.Tabs()
	require.Len(t, tabs, 1)
	assert.True(t, tabs[0].IsActive)
}

func TestDropConsoleForTab(t *testing.T) {
	s := NewState()
	s.PushConsole(models.ConsoleLogEntry{Type: models.ConsoleLog, Text: "a", TabIndex: 0})
	s.PushConsole(models.ConsoleLogEntry{Type: models.ConsoleLog, Text: "b", TabIndex: 1})
	s.DropConsoleForTab(0)

	remaining := s.ConsoleFiltered(nil, false)
	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].Text)
}

// TestLockTabSerializesSameTabOperations covers spec §5's "per-tab
// operations are serialized" invariant: two concurrent holders of the
// same tab's lock must never run their critical sections at once.
func TestLockTabSerializesSameTabOperations(t *testing.T) {
	s := NewState()
	s.AddPage(driver.NewFakePage("about:blank"))

	var mu sync.Mutex
	inside := 0
	maxInside := 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.LockTab(0)
			defer s.UnlockTab(0)

			mu.Lock()
			inside++
			if inside > maxInside {
				maxInside = inside
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInside, "two holders of the same tab's lock ran concurrently")
}

// TestLockTabOutOfRangeIsNoOp covers the documented no-op behavior for
// an out-of-range tab index.
func TestLockTabOutOfRangeIsNoOp(t *testing.T) {
	s := NewState()
	require.NotPanics(t, func() {
		s.LockTab(99)
		s.UnlockTab(99)
	})
}
