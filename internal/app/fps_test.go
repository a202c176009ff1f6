package app

import (
	"math"
	"testing"
	"time"
)

func TestFPSCounter_SteadyRate(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := newFPSCounter()
	c.now = func() time.Time { return clock }

	// 30fps: one frame every 33.33ms.
	for i := 0; i < 60; i++ {
		c.Update()
		clock = clock.Add(time.Second / 30)
	}

	if got := c.FPS(); math.Abs(got-30) > 0.5 {
		t.Errorf("FPS() = %f, want about 30", got)
	}
}

func TestFPSCounter_ZeroBeforeTwoFrames(t *testing.T) {
	c := newFPSCounter()
	if c.FPS() != 0 {
		t.Errorf("FPS() with no frames = %f, want 0", c.FPS())
	}
	c.Update()
	if c.FPS() != 0 {
		t.Errorf("FPS() with one frame = %f, want 0", c.FPS())
	}
}

func TestFPSCounter_WindowSlides(t *testing.T) {
	clock := time.Unix(1000, 0)
	c := newFPSCounter()
	c.now = func() time.Time { return clock }

	// Slow frames first, then fast ones: once the window has slid past
	// the slow samples the estimate reflects only the recent rate.
	for i := 0; i < 10; i++ {
		c.Update()
		clock = clock.Add(time.Second) // 1fps
	}
	for i := 0; i < 40; i++ {
		c.Update()
		clock = clock.Add(time.Second / 20) // 20fps
	}

	if got := c.FPS(); math.Abs(got-20) > 1 {
		t.Errorf("FPS() = %f, want about 20 after the window slid", got)
	}
}
