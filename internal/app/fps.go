package app

import (
	"sync"
	"time"
)

const fpsWindowSize = 30

// fpsCounter estimates throughput over a sliding window of frame
// timestamps.
type fpsCounter struct {
	mu     sync.Mutex
	stamps []time.Time
	fps    float64
	now    func() time.Time
}

func newFPSCounter() *fpsCounter {
	return &fpsCounter{now: time.Now}
}

// Update records one processed frame.
func (c *fpsCounter) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stamps = append(c.stamps, c.now())
	if len(c.stamps) > fpsWindowSize {
		c.stamps = c.stamps[1:]
	}
	if len(c.stamps) >= 2 {
		elapsed := c.stamps[len(c.stamps)-1].Sub(c.stamps[0]).Seconds()
		if elapsed > 0 {
			c.fps = float64(len(c.stamps)-1) / elapsed
		}
	}
}

// FPS returns the current estimate; zero until two frames have been seen.
func (c *fpsCounter) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}
