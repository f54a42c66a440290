package main

import (
	"fmt"
	"log"
	"time"

	"ftb-render/internal/config"
	"ftb-render/internal/graphics/gpu"
	"ftb-render/internal/graphics/renderer"
	"ftb-render/internal/input"
	"ftb-render/internal/profiling"
	"ftb-render/internal/viewer"
)

const (
	turnSpeed     = 8   // angle steps per frame
	moveSpeed     = 0.5 // world units per frame
	viewportStep  = 32
	minViewport   = 64
	fullViewport  = 256
	reportEvery   = time.Second
	profilingTopN = 6
)

// viewLoop drives frames and prints a status line once per second.
type viewLoop struct {
	r        *renderer.Renderer
	scene    *viewer.Scene
	settings *config.RenderSettings
	limiter  *viewer.FrameLimiter

	maxFrames int
	frames    int

	viewport      int
	showProfiling bool

	lastTime     time.Time
	lastReport   time.Time
	reportFrames int
}

func newViewLoop(r *renderer.Renderer, scene *viewer.Scene, maxFrames int) *viewLoop {
	now := time.Now()
	return &viewLoop{
		r:          r,
		scene:      scene,
		settings:   r.Settings(),
		limiter:    viewer.NewFrameLimiter(r.Settings()),
		maxFrames:  maxFrames,
		viewport:   fullViewport,
		lastTime:   now,
		lastReport: now,
	}
}

func (l *viewLoop) handleInput(im *input.InputManager) {
	if d := im.Axis(input.ActionTurnLeft, input.ActionTurnRight); d != 0 {
		l.scene.Turn(d * turnSpeed)
	}
	if d := im.Axis(input.ActionMoveBackward, input.ActionMoveForward); d != 0 {
		l.scene.Move(float32(d) * moveSpeed)
	}
	if im.JustPressed(input.ActionToggleBatching) {
		l.settings.SetBatching(!l.settings.Batching())
		log.Printf("ftb-viewer: batching %v", l.settings.Batching())
	}
	if im.JustPressed(input.ActionToggleCulling) {
		l.scene.SetCulling(!l.scene.Culling())
		log.Printf("ftb-viewer: culling %v", l.scene.Culling())
	}
	if im.JustPressed(input.ActionFlushTextures) {
		if err := l.scene.FlushTextures(); err != nil {
			log.Printf("ftb-viewer: %v", err)
		}
	}
	if im.JustPressed(input.ActionShrinkViewport) && l.viewport > minViewport {
		l.viewport -= viewportStep
		l.r.SetViewportScale(l.viewport, l.viewport)
	}
	if im.JustPressed(input.ActionGrowViewport) && l.viewport < fullViewport {
		l.viewport += viewportStep
		l.r.SetViewportScale(l.viewport, l.viewport)
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		l.showProfiling = !l.showProfiling
	}
}

// tick renders one frame and reports whether the loop should continue.
func (l *viewLoop) tick() bool {
	profiling.ResetFrame()
	now := time.Now()
	dt := now.Sub(l.lastTime).Seconds()
	l.lastTime = now

	l.r.Render(dt)
	l.frames++
	l.reportFrames++
	l.report(now)

	l.limiter.Wait()
	return l.maxFrames == 0 || l.frames < l.maxFrames
}

func (l *viewLoop) report(now time.Time) {
	elapsed := now.Sub(l.lastReport)
	if elapsed < reportEvery {
		return
	}
	walls, props := l.scene.Visible()
	used, total := l.r.Cache().AtlasUsage()
	log.Printf("FPS: %d walls=%d props=%d textures=%d atlas=%.1f%%",
		int(float64(l.reportFrames)/elapsed.Seconds()+0.5),
		walls, props, l.r.Cache().Len(), 100*float64(used)/float64(total))
	if l.showProfiling {
		log.Printf("%s | %s", profiling.TopN(profilingTopN), profiling.FormatCounters())
	}
	l.reportFrames = 0
	l.lastReport = now
}

func runHeadless(settings *config.RenderSettings, opts viewer.SceneOptions, frames int, exitC <-chan struct{}) error {
	rec := gpu.NewRecorder()
	r, err := renderer.New(rec, settings, nil)
	if err != nil {
		return err
	}
	defer r.Close()
	r.Resize(windowWidth, windowHeight)

	scene := viewer.NewScene(opts)
	if err := r.Add(scene); err != nil {
		return err
	}

	loop := newViewLoop(r, scene, frames)
	loop.showProfiling = true
	var draws, triangles int
	for {
		select {
		case <-exitC:
			return nil
		default:
		}
		// walk the corridor and sweep back and forth
		scene.Move(moveSpeed)
		if loop.frames%120 < 60 {
			scene.Turn(turnSpeed / 2)
		} else {
			scene.Turn(-turnSpeed / 2)
		}

		more := loop.tick()
		draws += len(rec.Submissions)
		triangles += rec.Triangles()
		rec.Reset()
		if !more {
			break
		}
	}
	fmt.Printf("rendered %d frames: %d draw submissions, %d triangles, %d cached textures\n",
		loop.frames, draws, triangles, r.Cache().Len())
	return nil
}
