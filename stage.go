package glyphswarm

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ErrStopped is returned when mounting a Stage that has been stopped.
var ErrStopped = errors.New("glyphswarm: stage stopped")

// StageConfig holds everything the Ebitengine frontend needs.
type StageConfig struct {
	Swarm Config

	Background Color
	Backdrop   BackdropConfig
	Flash      FlashConfig

	// RadiusFrequency and RadiusDamping tune the spring that eases the drawn
	// dot radius toward Swarm.DotSize.
	RadiusFrequency float64
	RadiusDamping   float64

	// ScreenshotDir receives PNGs queued with Stage.Screenshot.
	ScreenshotDir string
	// ControlFont is TTF data for panel labels. Nil selects Go Regular.
	ControlFont []byte

	ShowControls bool
	ShowHUD      bool
	Sound        bool
	// Debug logs per-second step and draw timings.
	Debug bool
}

// DefaultStageConfig returns the settings used by Run.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Swarm:           DefaultConfig(),
		Background:      Color{R: 0.03, G: 0.03, B: 0.06, A: 1},
		Backdrop:        DefaultBackdropConfig(),
		Flash:           DefaultFlashConfig(),
		RadiusFrequency: 8,
		RadiusDamping:   1,
		ScreenshotDir:   "screenshots",
		ShowControls:    true,
		Sound:           true,
	}
}

type stageState uint8

const (
	stageIdle stageState = iota
	stageRunning
	stageStopped
)

// Stage is the Ebitengine frontend: an ebiten.Game that owns a Swarm and
// runs it one frame per Update until stopped.
type Stage struct {
	config StageConfig
	state  stageState

	swarm    *Swarm
	in       *Input
	controls *Controls
	hud      *HUD
	sound    *Sound
	keys     keySource

	handles []CallbackHandle

	backdrop     backdrop
	radius       springValue
	elapsed      float64
	pendingSurf  Surface
	pressOnSwarm bool

	screenshots screenshotQueue
	testRunner  *TestRunner
	debug       debugStats
}

// NewStage creates an idle Stage. Nothing listens for input until Mount.
func NewStage(cfg StageConfig) (*Stage, error) {
	swarm, err := NewSwarm(cfg.Swarm)
	if err != nil {
		return nil, err
	}
	s := &Stage{
		config:      cfg,
		swarm:       swarm,
		in:          NewInput(),
		hud:         NewHUD(),
		keys:        ebitenKeys{},
		backdrop:    backdrop{config: cfg.Backdrop},
		screenshots: screenshotQueue{dir: cfg.ScreenshotDir},
	}
	if s.screenshots.dir == "" {
		s.screenshots.dir = "screenshots"
	}
	s.hud.Visible = cfg.ShowHUD
	s.radius = newSpringValue(ebiten.DefaultTPS, cfg.RadiusFrequency, cfg.RadiusDamping, swarm.DotSize())

	fontData := cfg.ControlFont
	var font *Font
	if fontData != nil {
		font, err = LoadFont(fontData, labelSize)
	} else {
		font, err = DefaultFont(labelSize)
	}
	if err != nil {
		logf("controls: labels disabled: %v", err)
		font = nil
	}
	s.controls = NewControls(swarm.Config(), font, ControlCallbacks{
		Stride:   s.SetStride,
		Size:     s.SetDotSize,
		Scatter:  s.Scatter,
		Assemble: s.Assemble,
	})
	s.controls.Visible = cfg.ShowControls
	if cfg.Sound {
		s.sound = NewSound()
	}
	return s, nil
}

// Swarm returns the simulation context.
func (s *Stage) Swarm() *Swarm { return s.swarm }

// Input returns the input dispatcher, for injecting synthetic events.
func (s *Stage) Input() *Input { return s.in }

// Controls returns the control panel.
func (s *Stage) Controls() *Controls { return s.controls }

// HUD returns the overlay.
func (s *Stage) HUD() *HUD { return s.hud }

func (s *Stage) input() *Input { return s.in }

// Running reports whether the stage is mounted and not stopped.
func (s *Stage) Running() bool { return s.state == stageRunning }

// Stopped reports whether Stop has been called.
func (s *Stage) Stopped() bool { return s.state == stageStopped }

// SetTestRunner attaches a TestRunner. Its step runs at the start of every
// Update, before input is polled.
func (s *Stage) SetTestRunner(r *TestRunner) {
	s.testRunner = r
}

// Mount registers the resize and pointer handlers and starts the loop.
// Mounting a running stage is a no-op; mounting a stopped one fails.
func (s *Stage) Mount() error {
	switch s.state {
	case stageRunning:
		return nil
	case stageStopped:
		return ErrStopped
	}
	s.handles = append(s.handles[:0],
		s.in.OnResize(s.onResize),
		s.in.OnPointerMove(s.onPointerMove),
		s.in.OnPointerDown(s.onPointerDown),
		s.in.OnPointerUp(s.onPointerUp),
	)
	s.state = stageRunning
	if s.sound != nil {
		if err := s.sound.Init(); err != nil {
			logf("sound: disabled: %v", err)
			s.sound = nil
		}
	}
	if s.pendingSurf.Valid() {
		s.in.SetSurface(s.pendingSurf)
	}
	return nil
}

// Stop ends the loop and detaches every handler. It is safe to call more
// than once, before Mount, and after a failed Mount.
func (s *Stage) Stop() {
	if s.state == stageStopped {
		return
	}
	s.state = stageStopped
	for _, h := range s.handles {
		h.Remove()
	}
	s.handles = s.handles[:0]
	if s.sound != nil {
		s.sound.Close()
	}
	s.backdrop.dispose()
}

// Update implements ebiten.Game. It runs one frame of the simulation and
// returns ebiten.Termination once the stage is stopped.
func (s *Stage) Update() error {
	if s.state == stageStopped {
		return ebiten.Termination
	}
	if s.state != stageRunning {
		return nil
	}
	s.beginFrame()
	s.handleKeys()
	if s.state == stageStopped {
		return ebiten.Termination
	}
	s.in.Poll()
	s.advance(1 / float64(ebiten.TPS()))
	return nil
}

// beginFrame runs the script and applies the latest layout.
func (s *Stage) beginFrame() {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.in.SetSurface(s.pendingSurf)
}

// advance steps the swarm and the UI by dt seconds.
func (s *Stage) advance(dt float64) {
	start := time.Now()
	s.swarm.Step()
	s.elapsed += dt
	s.radius.step(s.swarm.DotSize())
	s.controls.Update(float32(dt))
	s.hud.Update(dt, s.hudStats())
	if s.config.Debug {
		s.debug.addStep(time.Since(start), s.swarm.Pool().Len(), len(s.swarm.Targets()))
		s.debug.report(time.Now())
	}
}

func (s *Stage) hudStats() HUDStats {
	return HUDStats{
		FPS:       ebiten.ActualFPS(),
		TPS:       ebiten.ActualTPS(),
		Particles: s.swarm.Pool().Len(),
		Targets:   len(s.swarm.Targets()),
		Stride:    s.swarm.Stride(),
		Scattered: s.swarm.Scattered(),
	}
}

// Draw implements ebiten.Game.
func (s *Stage) Draw(screen *ebiten.Image) {
	start := time.Now()
	screen.Fill(s.config.Background.toRGBA())
	surf := s.swarm.Surface()
	if s.state == stageRunning && surf.Valid() {
		screen.DrawImage(s.backdrop.ensure(surf), nil)
		r := s.radius.value()
		drawParticles(screen, s.swarm.Pool().Particles(), r)
		drawFlashes(screen, s.swarm.Targets(), s.elapsed, r, s.config.Flash)
	}
	s.controls.Draw(screen)
	s.hud.Draw(screen)
	s.screenshots.flush(screen)
	if s.config.Debug {
		s.debug.addDraw(time.Since(start))
	}
}

// Layout implements ebiten.Game. The screen is sized in device pixels so the
// surface matches the display; the device scale is capped at MaxDeviceScale.
func (s *Stage) Layout(outsideWidth, outsideHeight int) (int, int) {
	surf := NewSurface(outsideWidth, outsideHeight, deviceScale())
	s.pendingSurf = surf
	return max(surf.Width, 1), max(surf.Height, 1)
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Screenshot queues a labeled capture written at the end of the next Draw.
func (s *Stage) Screenshot(label string) {
	s.screenshots.add(label)
}

// Scatter sends the particles away, as a press on the surface does.
func (s *Stage) Scatter() {
	s.swarm.Scatter()
	s.controls.Flash(true)
	s.sound.PlayScatter()
}

// Assemble brings the particles back to the glyph.
func (s *Stage) Assemble() {
	s.swarm.Assemble()
	s.controls.Flash(false)
	s.sound.PlayAssemble()
}

// SetStride changes the sampling step and keeps the panel in sync.
func (s *Stage) SetStride(stride int) {
	if _, err := s.swarm.SetStride(stride); err != nil {
		logf("stride %d: %v", stride, err)
	}
	s.controls.Sync(s.swarm.Stride(), s.swarm.DotSize())
}

// SetDotSize changes the draw radius and keeps the panel in sync.
func (s *Stage) SetDotSize(r float64) {
	s.swarm.SetDotSize(r)
	s.controls.Sync(s.swarm.Stride(), s.swarm.DotSize())
}

// SetGlyph changes the sampled text. On error the previous glyph is kept.
func (s *Stage) SetGlyph(glyph string) error {
	return s.swarm.SetGlyph(glyph)
}

// --- Handlers ---

func (s *Stage) onResize(surf Surface) {
	if err := s.swarm.Resize(surf); err != nil {
		logf("resize %dx%d: %v", surf.Width, surf.Height, err)
	}
	s.controls.Layout(surf.scale())
}

func (s *Stage) onPointerMove(ctx PointerContext) {
	s.controls.PointerMove(ctx.X, ctx.Y)
	s.swarm.PointerMove(ctx.X, ctx.Y)
}

func (s *Stage) onPointerDown(ctx PointerContext) {
	if s.controls.PointerDown(ctx.X, ctx.Y) {
		return
	}
	s.pressOnSwarm = true
	s.swarm.PointerDown(ctx.X, ctx.Y)
	s.sound.PlayScatter()
}

func (s *Stage) onPointerUp(ctx PointerContext) {
	if s.controls.PointerUp(ctx.X, ctx.Y) {
		return
	}
	if !s.pressOnSwarm {
		return
	}
	s.pressOnSwarm = false
	s.swarm.PointerUp(ctx.X, ctx.Y)
	s.sound.PlayAssemble()
}

// --- Keyboard ---

// keySource reports keys pressed this frame.
type keySource interface {
	JustPressed(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) JustPressed(k ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(k)
}

// handleKeys applies keyboard shortcuts.
func (s *Stage) handleKeys() {
	k := s.keys
	switch {
	case k.JustPressed(ebiten.KeyEscape):
		s.Stop()
		return
	case k.JustPressed(ebiten.KeyS):
		s.Scatter()
	case k.JustPressed(ebiten.KeyA):
		s.Assemble()
	}
	if k.JustPressed(ebiten.KeyEqual) || k.JustPressed(ebiten.KeyNumpadAdd) {
		s.SetStride(s.swarm.Stride() + 1)
	}
	if k.JustPressed(ebiten.KeyMinus) || k.JustPressed(ebiten.KeyNumpadSubtract) {
		s.SetStride(s.swarm.Stride() - 1)
	}
	step := s.swarm.Config().DotSizeStep
	if step <= 0 {
		step = 0.5
	}
	if k.JustPressed(ebiten.KeyBracketRight) {
		s.SetDotSize(s.swarm.DotSize() + step)
	}
	if k.JustPressed(ebiten.KeyBracketLeft) {
		s.SetDotSize(s.swarm.DotSize() - step)
	}
	if k.JustPressed(ebiten.KeyF3) {
		s.hud.Visible = !s.hud.Visible
	}
	if k.JustPressed(ebiten.KeyH) {
		s.controls.Visible = !s.controls.Visible
	}
	if k.JustPressed(ebiten.KeyF12) {
		s.Screenshot("manual")
	}
}
