package render

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// RenderFrames renders frames images, calling step before each one to
// advance the scene. It stops at the first error or when ctx is cancelled
// and returns the frames completed so far alongside the error.
//
// Frames are copied, so they stay valid when the renderer reuses its
// buffers.
func RenderFrames(ctx context.Context, r *Renderer, frames int, step func(i int) error) ([]*image.RGBA, error) {
	out := make([]*image.RGBA, 0, frames)
	for i := range frames {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if step != nil {
			if err := step(i); err != nil {
				return out, fmt.Errorf("frame %d: %w", i, err)
			}
		}
		img, err := r.Render(ctx)
		if err != nil {
			return out, fmt.Errorf("frame %d: %w", i, err)
		}
		out = append(out, cloneImage(img))
	}
	return out, nil
}

func cloneImage(img *image.RGBA) *image.RGBA {
	c := *img
	c.Pix = append([]uint8(nil), img.Pix...)
	return &c
}

// Track drives one value of the scene over successive frames.
type Track interface {
	// Step advances one frame, applies the new value, and reports whether
	// the track has settled.
	Step() (done bool, err error)
}

// SpringTrack moves a value towards a target along a damped spring.
type SpringTrack struct {
	spring   harmonica.Spring
	pos, vel float64
	target   float64
	apply    func(float64) error
}

// NewSpringTrack creates a spring from from to to, stepped at fps, that
// passes each new value to apply. Damping below 1 overshoots.
func NewSpringTrack(fps int, frequency, damping, from, to float64, apply func(float64) error) *SpringTrack {
	return &SpringTrack{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    from,
		target: to,
		apply:  apply,
	}
}

// settleThreshold is how close position and velocity must be to rest for
// a spring to count as settled.
const settleThreshold = 1e-3

// Step implements Track.
func (s *SpringTrack) Step() (bool, error) {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if err := s.apply(s.pos); err != nil {
		return false, err
	}
	return math.Abs(s.pos-s.target) < settleThreshold && math.Abs(s.vel) < settleThreshold, nil
}

// Retarget changes the spring's rest position, keeping its velocity.
func (s *SpringTrack) Retarget(to float64) { s.target = to }

// Value returns the current position.
func (s *SpringTrack) Value() float64 { return s.pos }

// TweenTrack moves a value along an easing curve over a fixed duration.
type TweenTrack struct {
	tween *gween.Tween
	fps   float64
	frame int
	value float64
	apply func(float64) error
}

// NewTweenTrack creates a tween from from to to lasting duration seconds,
// stepped at fps. A nil easing is linear.
func NewTweenTrack(fps int, from, to, duration float64, easing ease.TweenFunc, apply func(float64) error) *TweenTrack {
	if easing == nil {
		easing = ease.Linear
	}
	return &TweenTrack{
		tween: gween.New(float32(from), float32(to), float32(duration), easing),
		fps:   float64(fps),
		value: from,
		apply: apply,
	}
}

// Step implements Track. Time comes from the frame count, not an
// accumulated delta.
func (t *TweenTrack) Step() (bool, error) {
	t.frame++
	v, done := t.tween.Set(float32(float64(t.frame) / t.fps))
	t.value = float64(v)
	if err := t.apply(t.value); err != nil {
		return false, err
	}
	return done, nil
}

// Value returns the current value.
func (t *TweenTrack) Value() float64 { return t.value }

// Easings maps names usable in configuration files to easing curves.
var Easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
}

// Animation steps a set of tracks together, one frame at a time.
type Animation struct {
	tracks []Track
	done   []bool
}

// NewAnimation groups tracks.
func NewAnimation(tracks ...Track) *Animation {
	return &Animation{tracks: tracks, done: make([]bool, len(tracks))}
}

// Add appends a track.
func (a *Animation) Add(t Track) {
	a.tracks = append(a.tracks, t)
	a.done = append(a.done, false)
}

// Step advances every unfinished track. Its signature fits RenderFrames.
func (a *Animation) Step(int) error {
	for i, t := range a.tracks {
		if a.done[i] {
			continue
		}
		done, err := t.Step()
		if err != nil {
			return err
		}
		a.done[i] = done
	}
	return nil
}

// Done reports whether every track has finished.
func (a *Animation) Done() bool {
	for _, d := range a.done {
		if !d {
			return false
		}
	}
	return true
}
