package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/config"
	"github.com/normanking/cortexcam/internal/logging"
	"github.com/normanking/cortexcam/internal/metrics"
	"github.com/normanking/cortexcam/internal/remote"
	"github.com/normanking/cortexcam/internal/scene"
	"github.com/normanking/cortexcam/internal/session"
	"github.com/normanking/cortexcam/internal/settings"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a viewing session",
		Long:  "Run a camera session at the configured frame rate, optionally serving the remote bridge.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Config{
				LogDir:  cfg.Log.Dir,
				Level:   logging.LogLevel(cfg.Log.Level),
				Console: cfg.Log.Console,
			})
			if err != nil {
				return err
			}
			defer logger.Close()
			log := logger.Component("run")

			s, err := loadSettings(cfg.Session.SettingsPath)
			if err != nil {
				return err
			}

			bounds, err := loadBounds(cfg)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			mt, err := metrics.New(reg)
			if err != nil {
				return fmt.Errorf("register metrics: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts := session.Options{
				Metrics: mt,
				Logger:  logger.Zerolog(),
			}
			if cfg.Remote.Enabled {
				srv := remote.NewServer(cfg.Remote, reg, logger.Zerolog())
				opts.Bridge = srv
				go func() {
					if err := srv.Start(ctx); err != nil {
						log.Error().Err(err).Msg("Remote bridge stopped")
						stop()
					}
				}()
			}

			sess, err := session.New(cfg, s, bounds, opts)
			if err != nil {
				return err
			}

			if cfg.Session.WatchSettings && cfg.Session.SettingsPath != "" {
				go func() {
					err := settings.Watch(ctx, cfg.Session.SettingsPath, logger.Zerolog(), sess.Reload)
					if err != nil {
						log.Error().Err(err).Msg("Settings watch stopped")
					}
				}()
			}

			log.Info().
				Str("session", sess.ID).
				Float64("frameRate", cfg.Session.FrameRate).
				Msg("Running")

			if err := sess.Run(ctx, cfg.Session.FrameRate, frames); err != nil {
				return err
			}

			pose := sess.Manager.Pose()
			log.Info().
				Int("frames", sess.Frames()).
				Str("mode", string(sess.Manager.Mode())).
				Floats64("position", pose.Position[:]).
				Msg("Session finished")
			return nil
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 0, "stop after this many frames (0 runs until interrupted)")
	return cmd
}

// loadSettings reads the settings document, or returns an empty one when no path is set
func loadSettings(path string) (*settings.Settings, error) {
	if path == "" {
		return settings.Parse([]byte("{}"))
	}
	return settings.Load(path)
}

// loadBounds prefers the glTF scene and falls back to the configured box
func loadBounds(cfg *config.Config) (scene.BoundingBox, error) {
	if cfg.Session.ScenePath != "" {
		b, err := scene.LoadGLTFBounds(cfg.Session.ScenePath)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, scene.ErrEmptyScene) {
			return scene.BoundingBox{}, err
		}
	}
	c, h := cfg.Session.BoundsCenter, cfg.Session.BoundsHalfExtents
	return scene.BoundingBox{
		Center:      mgl64.Vec3{c[0], c[1], c[2]},
		HalfExtents: mgl64.Vec3{h[0], h[1], h[2]},
	}, nil
}
