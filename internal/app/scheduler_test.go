package app

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingHub struct {
	pings atomic.Int32
}

func (h *countingHub) PingAll() int {
	h.pings.Add(1)
	return 1
}

func (h *countingHub) Users() int { return 0 }

func TestScheduler_Heartbeat(t *testing.T) {
	hub := &countingHub{}
	s := NewScheduler(hub, 5*time.Millisecond, zap.NewNop())

	s.Start(t.Context())
	assert.Eventually(t, func() bool { return hub.pings.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := hub.pings.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, hub.pings.Load())
}
