package confirm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondClickConfirms(t *testing.T) {
	g := NewGate(time.Second)

	assert.False(t, g.Click("room-1"), "first click arms")
	armed, ok := g.Armed()
	require.True(t, ok)
	assert.Equal(t, "room-1", armed)

	assert.True(t, g.Click("room-1"), "second click within the window executes")
	_, ok = g.Armed()
	assert.False(t, ok, "gate returns to idle after executing")

	// The next click starts a fresh cycle instead of executing again.
	assert.False(t, g.Click("room-1"))
}

func TestWindowExpiryDisarms(t *testing.T) {
	g := NewGate(30 * time.Millisecond)

	assert.False(t, g.Click("room-1"))
	require.Eventually(t, func() bool {
		_, ok := g.Armed()
		return !ok
	}, time.Second, 5*time.Millisecond, "arm window must auto-expire")

	// A full new cycle is required after expiry.
	assert.False(t, g.Click("room-1"))
	assert.True(t, g.Click("room-1"))
}

func TestClickOnDifferentIDRearms(t *testing.T) {
	g := NewGate(time.Second)

	assert.False(t, g.Click("room-1"))
	assert.False(t, g.Click("room-2"), "switching targets never deletes")

	armed, ok := g.Armed()
	require.True(t, ok)
	assert.Equal(t, "room-2", armed)

	assert.True(t, g.Click("room-2"))
}

func TestRearmRestartsWindow(t *testing.T) {
	g := NewGate(60 * time.Millisecond)

	assert.False(t, g.Click("room-1"))
	time.Sleep(40 * time.Millisecond)
	assert.False(t, g.Click("room-2"))
	time.Sleep(40 * time.Millisecond)

	// 80ms after the first arm but only 40ms after re-arming: still armed.
	assert.True(t, g.Click("room-2"))
}

func TestReset(t *testing.T) {
	g := NewGate(time.Second)
	g.Click("room-1")
	g.Reset()
	_, ok := g.Armed()
	assert.False(t, ok)
	assert.False(t, g.Click("room-1"))
}

func TestZeroWindowDefaults(t *testing.T) {
	g := NewGate(0)
	assert.Equal(t, DefaultWindow, g.window)
}
