package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/camplayer/pkg/config"
	"github.com/tauraamui/camplayer/pkg/configdef"
	"github.com/tauraamui/camplayer/pkg/log"
	"github.com/tauraamui/camplayer/pkg/player"
	"github.com/tauraamui/camplayer/pkg/video/videobackend"
	"github.com/tauraamui/camplayer/pkg/video/videoframe"
)

const usage = "Usage: camplayer [setup | remove-setup]"

// setup writes a default config file for the current user
func setup() (string, error) {
	log.Info("Setting up camplayer...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func removeSetup() (string, error) {
	log.Info("Removing setup for camplayer...")
	if err := config.DefaultDestroyer().Destroy(); err != nil {
		log.Error("unable to delete config file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

func manage(args []string) (string, error) {
	if len(args) > 0 {
		switch args[0] {
		case "setup":
			return setup()
		case "remove-setup":
			return removeSetup()
		default:
			return usage, nil
		}
	}
	return "", play()
}

func play() error {
	values, err := config.ResolveOrDefault(config.DefaultResolver())
	if err != nil {
		return err
	}

	sett := settingsFromValues(values)
	logger := log.New(sett.LogLevel)
	logger.Info("Starting camplayer with %s video backend...", sett.VideoBackend.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	go func() {
		select {
		case sig := <-interrupt:
			fmt.Print("\r")
			logger.Warn("Received signal: %s", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	report, err := player.New(sett).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Average Frames Per Second")
	fmt.Println(report.AverageString())
	return nil
}

func settingsFromValues(values configdef.Values) player.Settings {
	sett := player.DefaultSettings()
	sett.LogLevel = log.ParseLevel(values.LogLevel)
	if lvl := os.Getenv("CAMPLAYER_LOGGING_LEVEL"); len(lvl) > 0 {
		sett.LogLevel = log.ParseLevel(lvl)
	}

	sett.ForceAlternateBackend = values.ForceAlternateBackend
	sett.VideoBackend = selectVideoBackend(values)

	sett.Device = values.Device
	if values.Width > 0 && values.Height > 0 {
		sett.Dimensions = videoframe.Dimensions{W: values.Width, H: values.Height}
	}
	sett.Show = values.ShowWindow()
	if n, ok := values.Flush(); ok {
		sett.FlushFrames = n
	}
	sett.TransformErrorPolicy = player.ParseTransformErrorPolicy(values.TransformErrorPolicy)
	sett.PollInterval = values.PollInterval()
	if len(values.WindowTitle) > 0 {
		sett.WindowTitle = values.WindowTitle
	}
	return sett
}

// selectVideoBackend prefers the environment, then the force alternate
// flag, then the named backend from config.
func selectVideoBackend(values configdef.Values) videobackend.Backend {
	if env := os.Getenv("CAMPLAYER_VIDEO_BACKEND"); len(env) > 0 {
		return videobackend.Resolve(env)
	}
	if values.ForceAlternateBackend || len(values.Backend) == 0 {
		return videobackend.Select(values.ForceAlternateBackend)
	}
	return videobackend.Resolve(values.Backend)
}

func init() {
	// window toolkits expect to be driven from the thread which created them
	runtime.LockOSThread()

	logging.CallbackLabelLevel = 5
	if strings.EqualFold(os.Getenv("CAMPLAYER_LOGGING_LEVEL"), "debug") {
		logging.CallbackLabel = true
	}
}

func main() {
	status, err := manage(os.Args[1:])
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	if len(status) > 0 {
		logging.Info(status) //nolint
	}
}
