package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type pingMsg struct{ n int }

func TestLoopDeliversAndDispatches(t *testing.T) {
	l := NewLoop(4)
	received := make(chan int, 4)
	l.Use(func(m Msg) Cmd {
		if p, ok := m.(pingMsg); ok {
			received <- p.n
		}
		return nil
	})
	go l.Run()
	defer l.Stop()

	l.Send(pingMsg{1})
	l.Send(pingMsg{2})

	require.Equal(t, 1, <-received)
	require.Equal(t, 2, <-received)
}

func TestBatchFlattensIntoHandlers(t *testing.T) {
	l := NewLoop(4)
	seen := make(chan int, 8)
	l.Use(func(m Msg) Cmd {
		if p, ok := m.(pingMsg); ok {
			seen <- p.n
		}
		return nil
	})
	go l.Run()
	defer l.Stop()

	l.Dispatch(Batch(
		func() Msg { return pingMsg{1} },
		func() Msg { return pingMsg{2} },
	))

	got := map[int]bool{}
	got[(<-seen)] = true
	got[(<-seen)] = true
	require.True(t, got[1])
	require.True(t, got[2])
}

func TestDebounceCollapsesRapidTriggers(t *testing.T) {
	d := NewDebounceState(20 * time.Millisecond)
	fired := make(chan int, 4)

	d.Trigger(func(gen int) { fired <- gen })
	time.Sleep(5 * time.Millisecond)
	d.Trigger(func(gen int) { fired <- gen }) // restarts the timer

	select {
	case <-fired:
		t.Fatal("fired before debounce settled")
	case <-time.After(10 * time.Millisecond):
	}

	gen := <-fired
	require.Equal(t, 2, gen)
	require.False(t, d.Stale(gen))
}

func TestDebounceTriggerAtLeastKeepsLaterDeadline(t *testing.T) {
	d := NewDebounceState(0)
	fired := make(chan int, 4)

	d.TriggerAtLeast(60*time.Millisecond, func(gen int) { fired <- gen })
	time.Sleep(5 * time.Millisecond)
	// a shorter trigger must not cut the armed deadline short
	d.TriggerAtLeast(10*time.Millisecond, func(gen int) { fired <- gen })

	select {
	case <-fired:
		t.Fatal("short trigger cut the long deadline short")
	case <-time.After(30 * time.Millisecond):
	}

	gen := <-fired
	require.Equal(t, 2, gen)
}
