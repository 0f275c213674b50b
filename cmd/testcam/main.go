// testcam - webcam head-movement monitor
//
// Owns the local webcam, runs YuNet face detection on every frame, compares
// the eye-midpoint reference position against the previous frame, and serves
// a dashboard with the annotated feed and movement warnings.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/TechWebSid/testcam/internal/config"
	"github.com/TechWebSid/testcam/internal/log"
	"github.com/TechWebSid/testcam/pkg/camera"
	"github.com/TechWebSid/testcam/pkg/debug"
	"github.com/TechWebSid/testcam/pkg/detection"
	"github.com/TechWebSid/testcam/pkg/render"
	"github.com/TechWebSid/testcam/pkg/tracking"
	"github.com/TechWebSid/testcam/pkg/web"
)

func main() {
	debugFlag := flag.Bool("debug", false, "enable debug logging")
	debugTracking := flag.Bool("debug-tracking", false, "enable verbose per-frame tracking logs")
	flag.Parse()
	debug.Enabled = *debugFlag
	debug.Tracking = *debugTracking

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trackCfg := tracking.DefaultConfig()
	if cfg.MoveThreshold > 0 {
		trackCfg.MoveThreshold = cfg.MoveThreshold
	}

	camCfg := camera.DefaultConfig()
	camCfg.DeviceID = cfg.CameraDevice

	detCfg := detection.DefaultConfig()
	detCfg.ModelPath = cfg.ModelPath

	// Initialization failures are fatal to tracking for the session: the
	// dashboard stays up with a persistent blocking message, no retry.
	var initErr string

	detector, err := detection.NewYuNet(detCfg)
	if err != nil {
		initErr = "face model unavailable: " + err.Error()
		log.Error("detector init failed", "err", err)
	}

	var webcam *camera.Webcam
	if initErr == "" {
		webcam, err = camera.OpenWebcam(camCfg)
		if err != nil {
			initErr = "camera unavailable: check that a webcam is connected and not in use: " + err.Error()
			log.Error("camera init failed", "err", err)
		}
	}

	cameraMgr := camera.NewManager(camCfg)

	var tracker *tracking.Tracker
	if initErr == "" {
		cameraMgr.OnConfigChange = webcam.Apply
		tracker = tracking.New(trackCfg, detector, webcam)
		tracker.SetAnnotator(render.New())
	}

	server := web.NewServer(cfg.HTTPPort, cfg.WebDir, cameraMgr, tracker)
	server.StartAsync()
	server.SetReady(webcam != nil, detector != nil)

	if initErr != "" {
		server.SetInitError(initErr)
		<-ctx.Done()
	} else {
		tracker.SetStateUpdater(server)
		server.AddLog("info", "movement tracking started")
		tracker.Run(ctx) // blocks until signal
	}

	log.Info("shutting down")
	server.Shutdown()
	if webcam != nil {
		webcam.Close()
	}
	if detector != nil {
		detector.Close()
	}
}
