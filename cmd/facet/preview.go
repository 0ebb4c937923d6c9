package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/logger"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

// RotationAxis tracks position and velocity for one orbit angle, with the
// velocity decaying along a spring.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates a critically damped axis starting at pos.
func NewRotationAxis(fps int, pos float64) RotationAxis {
	return RotationAxis{
		Position:  pos,
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and eases velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// orbitState is the preview camera's position around its target.
type orbitState struct {
	Yaw, Pitch RotationAxis
	Distance   float64
}

// orbitFrom recovers yaw, pitch and distance from a camera origin, the
// inverse of Camera.Orbit.
func orbitFrom(fps int, origin, target math3d.Vec3) orbitState {
	off := origin.Sub(target)
	d := off.Len()
	if d == 0 {
		return orbitState{Yaw: NewRotationAxis(fps, 0), Pitch: NewRotationAxis(fps, 0), Distance: 1}
	}
	return orbitState{
		Yaw:      NewRotationAxis(fps, math.Atan2(off.X, -off.Z)),
		Pitch:    NewRotationAxis(fps, math.Asin(off.Y/d)),
		Distance: d,
	}
}

func (o *orbitState) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	const limit = math.Pi/2 - 0.01
	o.Pitch.Position = max(-limit, min(limit, o.Pitch.Position))
}

func (o *orbitState) ApplyImpulse(pitch, yaw float64) {
	o.Pitch.Velocity += pitch
	o.Yaw.Velocity += yaw
}

// previewState is shared between the event goroutine and the draw loop.
type previewState struct {
	mu sync.Mutex

	orbit     orbitState
	initial   orbitState
	torque    struct{ pitch, yaw float64 }
	opts      render.Options
	optsDirty bool
	showHUD   bool
	save      bool

	mouseDown     bool
	lastX, lastY  int
	width, height int
	resized       bool
}

// HUD renders an overlay with scene info.
type HUD struct {
	title     string
	triangles int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD.
func NewHUD(title string, triangles int) *HUD {
	return &HUD{title: title, triangles: triangles, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter. Call once per frame.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD rows directly to the terminal.
func (h *HUD) Render(width, height int, show bool, opts render.Options, stats render.Stats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !show {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)
	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)
	tris := fmt.Sprintf("%d/%d tris", stats.TrianglesDrawn, h.triangles)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, max(width-len(tris)-2, 1)), bgBlack, fgCyan, bold, tris, reset)

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	fmt.Printf("%s%s%s %s Wireframe  %s Shadows  %s Icons %s", moveTo(height, 1), bgBlack, fgWhite,
		check(opts.Wireframe), check(opts.Shadows), check(opts.DrawMarkers), reset)
}

// preview shows the scene in the terminal and orbits the camera around the
// animation target under keyboard and mouse control.
func preview(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("preview")
	st, err := buildStage(cfg, log)
	if err != nil {
		return err
	}
	fps := max(cfg.Animation.FPS, 1)
	target := cfg.Animation.Orbit.Target.Vec()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ps := &previewState{
		orbit:   orbitFrom(fps, st.camera.Origin(), target),
		opts:    st.renderer.Options(),
		width:   width,
		height:  height,
		resized: true,
	}
	ps.initial = ps.orbit

	triangles := 0
	for _, o := range st.objects {
		triangles += len(o.Structure().Triangles)
	}
	hud := NewHUD("facet", triangles)

	go handleEvents(term, ps, cancel)

	const torqueStrength = 3.0
	frameDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()
	var last *image.RGBA

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		ps.mu.Lock()
		ps.orbit.ApplyImpulse(ps.torque.pitch*dt*torqueStrength, ps.torque.yaw*dt*torqueStrength)
		ps.torque.pitch *= 0.9
		ps.torque.yaw *= 0.9
		ps.orbit.Update()
		orbit := ps.orbit
		if ps.resized {
			width, height = ps.width, ps.height
			if err := fitCamera(st.camera, width, height*2); err != nil {
				log.Warn("resize", zap.Error(err))
			}
			ps.resized = false
		}
		if ps.optsDirty {
			st.renderer.SetOptions(ps.opts)
			ps.optsDirty = false
		}
		opts, showHUD, save := ps.opts, ps.showHUD, ps.save
		ps.save = false
		ps.mu.Unlock()

		if err := st.camera.Orbit(target, orbit.Distance, orbit.Yaw.Position, orbit.Pitch.Position); err != nil {
			return err
		}

		img, err := st.renderer.Render(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		last = img

		st.renderer.Framebuffer().Draw(term, uv.Rect(0, 0, width, height))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		hud.UpdateFPS()
		hud.Render(width, height, showHUD, opts, st.renderer.Stats())

		if save && last != nil {
			path := fmt.Sprintf("facet_%s.png", time.Now().Format("20060102_150405"))
			if err := render.SaveImage(last, path); err != nil {
				log.Error("save frame", zap.Error(err))
			} else {
				log.Info("frame saved", zap.String("path", path))
			}
		}

		if elapsed := time.Since(now); elapsed < frameDuration {
			time.Sleep(frameDuration - elapsed)
		}
	}
}

// fitCamera resizes the camera's raster and adjusts the view height so
// pixels stay square.
func fitCamera(cam *render.Camera, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if err := cam.SetRenderSize(w, h); err != nil {
		return err
	}
	return cam.SetViewHeight(cam.ViewVolume().Width * float64(h) / float64(w))
}

func handleEvents(term *uv.Terminal, ps *previewState, cancel context.CancelFunc) {
	for ev := range term.Events() {
		ps.mu.Lock()
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			ps.width, ps.height = ev.Width, ev.Height
			ps.resized = true
			term.Erase()
			term.Resize(ev.Width, ev.Height)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				ps.mu.Unlock()
				cancel()
				return
			case ev.MatchString("r"):
				ps.orbit = ps.initial
			case ev.MatchString("w", "up"):
				ps.torque.pitch = 1
			case ev.MatchString("s", "down"):
				ps.torque.pitch = -1
			case ev.MatchString("a", "left"):
				ps.torque.yaw = -1
			case ev.MatchString("d", "right"):
				ps.torque.yaw = 1
			case ev.MatchString("space"):
				ps.orbit.ApplyImpulse((rand.Float64()-0.5)*0.5, (rand.Float64()-0.5)*1.5)
			case ev.MatchString("+", "="):
				ps.orbit.Distance = math.Max(1, ps.orbit.Distance-0.5)
			case ev.MatchString("-", "_"):
				ps.orbit.Distance = math.Min(50, ps.orbit.Distance+0.5)
			case ev.MatchString("x"):
				ps.opts.Wireframe = !ps.opts.Wireframe
				ps.optsDirty = true
			case ev.MatchString("h"):
				ps.opts.Shadows = !ps.opts.Shadows
				ps.optsDirty = true
			case ev.MatchString("m"):
				ps.opts.DrawMarkers = !ps.opts.DrawMarkers
				ps.optsDirty = true
			case ev.MatchString("p"):
				ps.save = true
			case ev.MatchString("?", "shift+/"):
				ps.showHUD = !ps.showHUD
			}

		case uv.KeyReleaseEvent:
			switch {
			case ev.MatchString("w", "up", "s", "down"):
				ps.torque.pitch = 0
			case ev.MatchString("a", "left", "d", "right"):
				ps.torque.yaw = 0
			}

		case uv.MouseClickEvent:
			ps.mouseDown = true
			ps.lastX, ps.lastY = ev.X, ev.Y

		case uv.MouseReleaseEvent:
			ps.mouseDown = false

		case uv.MouseMotionEvent:
			if ps.mouseDown {
				dx, dy := ev.X-ps.lastX, ev.Y-ps.lastY
				ps.orbit.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03)
				ps.lastX, ps.lastY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				ps.orbit.Distance = math.Max(1, ps.orbit.Distance-0.5)
			case uv.MouseWheelDown:
				ps.orbit.Distance = math.Min(50, ps.orbit.Distance+0.5)
			}
		}
		ps.mu.Unlock()
	}
}
