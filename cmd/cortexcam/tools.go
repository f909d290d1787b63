package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/anim"
	"github.com/normanking/cortexcam/internal/scene"
	"github.com/normanking/cortexcam/internal/settings"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSampleCmd() *cobra.Command {
	var (
		trackName string
		step      float64
		length    float64
	)

	cmd := &cobra.Command{
		Use:   "sample [settings-file]",
		Short: "Print samples of an animation track",
		Long:  "Evaluate a track from a settings file at a fixed time step and print time, position and target rows.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Load(args[0])
			if err != nil {
				return err
			}
			authored, ok := s.FindTrack(trackName)
			if !ok {
				return fmt.Errorf("track %q not found", trackName)
			}
			track, err := authored.Track()
			if err != nil {
				return err
			}
			if step <= 0 {
				return fmt.Errorf("step must be positive")
			}

			total := length
			if total <= 0 {
				total = track.Duration
			}

			player := anim.NewPlayer(track)
			out := cmd.OutOrStdout()
			steps := int(math.Floor(total/step + 1e-9))
			for i := 0; i <= steps; i++ {
				if i > 0 {
					player.Update(step)
				}
				p, t := player.Position(), player.Target()
				fmt.Fprintf(out, "%8.3f  %10.4f %10.4f %10.4f  %10.4f %10.4f %10.4f\n",
					player.Cursor.Value(), p[0], p[1], p[2], t[0], t[1], t[2])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trackName, "track", "", "track name (default: first track)")
	cmd.Flags().Float64Var(&step, "step", 0.5, "time step in seconds")
	cmd.Flags().Float64Var(&length, "length", 0, "seconds to sample (default: track duration)")
	return cmd
}

func newRotateTrackCmd() *cobra.Command {
	var (
		position []float64
		target   []float64
		keys     int
		duration float64
	)

	cmd := &cobra.Command{
		Use:   "rotate-track",
		Short: "Generate an orbiting animation track",
		Long:  "Emit a repeating track that circles the target, as YAML for a settings file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(position) != 3 || len(target) != 3 {
				return fmt.Errorf("position and target need three components")
			}
			if keys < 1 {
				return fmt.Errorf("keys must be at least 1")
			}
			track := anim.RotateTrack(
				mgl64.Vec3{position[0], position[1], position[2]},
				mgl64.Vec3{target[0], target[1], target[2]},
				keys, duration,
			)
			doc := settings.Settings{AnimTracks: []settings.AnimTrack{settings.TrackFromAnim(track)}}
			data, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().Float64SliceVar(&position, "position", []float64{2, 1, 2}, "camera position x,y,z")
	cmd.Flags().Float64SliceVar(&target, "target", []float64{0, 0, 0}, "orbit center x,y,z")
	cmd.Flags().IntVar(&keys, "keys", anim.DefaultRotateKeys, "number of keyframes")
	cmd.Flags().Float64Var(&duration, "duration", anim.DefaultRotateDuration, "loop duration in seconds")
	return cmd
}

func newBoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds [scene.gltf|scene.glb]",
		Short: "Print the bounds of a glTF scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := scene.LoadGLTFBounds(args[0])
			if err != nil {
				return err
			}
			lo, hi := b.Min(), b.Max()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "center        %v\n", b.Center)
			fmt.Fprintf(out, "half-extents  %v\n", b.HalfExtents)
			fmt.Fprintf(out, "min           %v\n", lo)
			fmt.Fprintf(out, "max           %v\n", hi)
			return nil
		},
	}
}
