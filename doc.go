// Package glyphswarm is an interactive particle effect for [Ebitengine]: a
// glyph is rendered offscreen, sampled into a colored point cloud, and a pool
// of particles springs toward those points, scatters on a press and
// reassembles on release.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	cfg := glyphswarm.DefaultStageConfig()
//	cfg.Swarm.Glyph = "♥"
//	glyphswarm.Run(glyphswarm.RunConfig{
//		Title: "Glyph Swarm", Width: 960, Height: 720, Stage: &cfg,
//	})
//
// For full control, create a [Stage] and hand it to [ebiten.RunGame]
// yourself. A Stage is an [ebiten.Game]; call [Stage.Mount] before running
// and [Stage.Stop] to end the loop:
//
//	stage, err := glyphswarm.NewStage(glyphswarm.DefaultStageConfig())
//	if err != nil { ... }
//	if err := stage.Mount(); err != nil { ... }
//	defer stage.Stop()
//	ebiten.RunGame(stage)
//
// # Simulation
//
// The simulation lives in [Swarm], which does not depend on the Ebitengine
// loop, so other frontends can drive it (see the termview package).
// [Sampler.Compute] turns a glyph into an ordered list of [Target]s, the
// [Pool] holds one [Particle] per target, and [Advance] moves a particle by
// one frame: spring toward its target, pointer repulsion, then damping.
//
//	swarm, _ := glyphswarm.NewSwarm(glyphswarm.DefaultConfig())
//	swarm.Resize(glyphswarm.NewSurface(800, 600, 1))
//	swarm.PointerDown(400, 300) // scatter
//	swarm.Step()
//
// # Automated checks
//
// [Input] accepts synthetic pointer events and [LoadTestScript] sequences
// them with commands and screenshots across frames, so a run can be
// reproduced and captured without a person at the keyboard.
//
// [Ebitengine]: https://ebitengine.org
package glyphswarm
