package glyphswarm

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// ShowFPS starts with the HUD visible.
	ShowFPS bool
	// Stage is the stage configuration. Nil selects
	// DefaultStageConfig.
	Stage *StageConfig
	// TestScript, when set, is parsed with LoadTestScript and attached to
	// the stage. Run returns once the script has finished.
	TestScript []byte
}

// Run opens a resizable window and runs a Stage until the window is closed,
// Esc is pressed or the test script finishes.
func Run(cfg RunConfig) error {
	stageCfg := DefaultStageConfig()
	if cfg.Stage != nil {
		stageCfg = *cfg.Stage
	}
	if cfg.ShowFPS {
		stageCfg.ShowHUD = true
	}
	stage, err := NewStage(stageCfg)
	if err != nil {
		return err
	}
	if cfg.TestScript != nil {
		runner, err := LoadTestScript(cfg.TestScript)
		if err != nil {
			return err
		}
		stage.SetTestRunner(runner)
	}
	if err := stage.Mount(); err != nil {
		return err
	}
	defer stage.Stop()

	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		w, h = 800, 600
	}
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(&runGame{stage: stage}); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// runGame stops the stage once an attached test script is done.
type runGame struct {
	stage *Stage
}

func (g *runGame) Update() error {
	if r := g.stage.testRunner; r != nil && r.Done() && len(g.stage.screenshots.labels) == 0 {
		g.stage.Stop()
	}
	return g.stage.Update()
}

func (g *runGame) Draw(screen *ebiten.Image) { g.stage.Draw(screen) }

func (g *runGame) Layout(w, h int) (int, int) { return g.stage.Layout(w, h) }
