package main

import (
	"flag"
	"log"
	"runtime"

	"ftb-render/internal/config"
	"ftb-render/internal/graphics/palette"
	"ftb-render/internal/viewer"

	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var (
		headless = flag.Bool("headless", false, "render into an in-memory recorder instead of a window")
		frames   = flag.Int("frames", 0, "stop after this many frames (0 runs until closed; headless defaults to 300)")
		atlas    = flag.Int("atlas", config.DefaultAtlasSize, "atlas edge length in texels (power of two)")
		scaler   = flag.String("scaler", palette.Point1x.String(), "texture upscaler: point1x, point2x, scale2x, point3x, scale3x")
		fps      = flag.Int("fps", config.DefaultFPSLimit, "frame cap, 0 for unlimited")
		segments = flag.Int("segments", 16, "wall pairs along the corridor")
		props    = flag.Int("props", 6, "spinning boxes drawn as objects")
		noBatch  = flag.Bool("nobatch", false, "draw every polygon immediately instead of batching")
	)
	flag.Parse()

	settings := config.Default()
	settings.AtlasSize = *atlas
	s, err := palette.ParseScaler(*scaler)
	if err != nil {
		log.Fatalf("ftb-viewer: %v", err)
	}
	settings.Scaler = s
	settings.SetFPSLimit(*fps)
	settings.SetBatching(!*noBatch)
	if err := settings.Validate(); err != nil {
		log.Fatalf("ftb-viewer: %v", err)
	}

	// The close handler runs on its own goroutine; GL teardown must stay on
	// the locked main thread, so it only asks the loop to stop and waits.
	exitC := make(chan struct{}, 1)
	doneC := make(chan struct{})
	closer.Bind(func() {
		select {
		case exitC <- struct{}{}:
		default:
		}
		<-doneC
	})
	defer closer.Close()

	opts := viewer.SceneOptions{Segments: *segments, Props: *props}
	if *headless {
		if *frames == 0 {
			*frames = 300
		}
		err = runHeadless(settings, opts, *frames, exitC)
	} else {
		err = runWindowed(settings, opts, *frames, exitC)
	}
	close(doneC)
	if err != nil {
		closer.Fatalln("ftb-viewer:", err)
	}
}
