package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
)

// captureLoop pulls frames from the camera, preprocesses them for
// detection, and feeds the frame queue. It never blocks on the process
// worker: when the queue is full the oldest frame is dropped.
func (o *Orchestrator) captureLoop() {
	defer close(o.captureDone)
	log.Print("capture worker started")

	for o.running.Load() {
		if o.State() == StatePaused {
			time.Sleep(pauseSleep)
			continue
		}

		raw, err := o.camera.GetFrame()
		if err != nil {
			log.Printf("capture error: %v", err)
			time.Sleep(pauseSleep)
			continue
		}
		rgb := o.camera.PreprocessForDetection(raw)

		evicted, dropped := o.frames.Push(capturedFrame{raw: raw, rgb: rgb, t: time.Now()})
		if dropped {
			evicted.close()
		}

		time.Sleep(captureSleep)
	}

	log.Print("capture worker stopped")
}

// processLoop drains the frame queue: recognition, effect aging, overlay
// drawing, result fan-out and action dispatch, in that order.
func (o *Orchestrator) processLoop() {
	defer close(o.processDone)
	log.Print("process worker started")

	for o.running.Load() {
		if o.State() == StatePaused {
			time.Sleep(pauseSleep)
			continue
		}

		frame, ok := o.frames.Pop(popTimeout)
		if !ok {
			continue
		}

		now := time.Now()
		dt := now.Sub(o.lastFrameTime).Seconds()
		o.lastFrameTime = now

		landmarks, event, err := o.gestures.ProcessFrame(frame.rgb)
		if err != nil {
			log.Printf("process error: %v", err)
			frame.close()
			continue
		}
		frame.rgb.Close()

		o.actions.UpdateEffect(dt)

		if o.opts.ShowSkeleton {
			o.gestures.DrawLandmarks(frame.raw)
		}
		o.actions.RenderEffects(frame.raw)
		o.fps.Update()

		result := &FrameResult{
			Frame:     frame.raw,
			Landmarks: landmarks,
			Event:     event,
			FPS:       o.fps.FPS(),
		}
		// Callbacks see the result before the queue does: once pushed, the
		// consumer owns Frame and may Close it at any moment.
		for _, cb := range o.onFrame {
			invokeFrameCallback(cb, result)
		}

		if old, dropped := o.results.Push(result); dropped && old.Frame != nil {
			old.Frame.Close()
		}

		if event != nil {
			actionResult := o.actions.HandleGesture(event)
			for _, cb := range o.onGesture {
				invokeGestureCallback(cb, event, actionResult)
			}
		}
	}

	log.Print("process worker stopped")
}

func invokeFrameCallback(cb func(*FrameResult), r *FrameResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("frame callback panicked: %v", rec)
		}
	}()
	cb(r)
}

func invokeGestureCallback(cb func(*gesture.Event, *action.Result), ev *gesture.Event, res *action.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("gesture callback panicked: %v", rec)
		}
	}()
	cb(ev, res)
}
