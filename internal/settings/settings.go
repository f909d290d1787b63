// Package settings models the authored viewer settings document: the
// initial camera, scripted camera tracks and annotation viewpoints.
package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/normanking/cortexcam/internal/anim"
	"github.com/normanking/cortexcam/internal/camera"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is wrapped by all validation errors
var ErrInvalidSettings = errors.New("invalid settings")

// legacyFrameRate is assumed for tracks authored before frameRate existed;
// their keyframe times are in seconds.
const legacyFrameRate = 30

// StartMode selects how a session begins
type StartMode string

const (
	StartDefault    StartMode = "default"
	StartAnimTrack  StartMode = "animTrack"
	StartAnnotation StartMode = "annotation"
)

// Settings is the root settings document
type Settings struct {
	Camera      CameraSettings `yaml:"camera" json:"camera"`
	AnimTracks  []AnimTrack    `yaml:"animTracks" json:"animTracks"`
	Annotations []Annotation   `yaml:"annotations" json:"annotations"`
}

// CameraSettings configures the starting camera
type CameraSettings struct {
	Position   *[3]float64 `yaml:"position,omitempty" json:"position,omitempty"`
	Target     *[3]float64 `yaml:"target,omitempty" json:"target,omitempty"`
	FOV        *float64    `yaml:"fov,omitempty" json:"fov,omitempty"`
	StartMode  StartMode   `yaml:"startMode,omitempty" json:"startMode,omitempty"`
	AnimTrack  string      `yaml:"animTrack,omitempty" json:"animTrack,omitempty"`
	AutoRotate *bool       `yaml:"autoRotate,omitempty" json:"autoRotate,omitempty"`
}

// AnimTrack is an authored camera path. Keyframe values are flattened
// xyz triples, one per entry in Times.
type AnimTrack struct {
	Name       string    `yaml:"name" json:"name"`
	Duration   float64   `yaml:"duration" json:"duration"`
	FrameRate  float64   `yaml:"frameRate,omitempty" json:"frameRate,omitempty"`
	LoopMode   string    `yaml:"loopMode,omitempty" json:"loopMode,omitempty"`
	Smoothness *float64  `yaml:"smoothness,omitempty" json:"smoothness,omitempty"`
	Keyframes  Keyframes `yaml:"keyframes" json:"keyframes"`
}

// Keyframes holds the sample times and values of a track
type Keyframes struct {
	Times  []float64      `yaml:"times" json:"times"`
	Values KeyframeValues `yaml:"values" json:"values"`
}

// KeyframeValues holds flattened position and target samples
type KeyframeValues struct {
	Position []float64 `yaml:"position" json:"position"`
	Target   []float64 `yaml:"target" json:"target"`
}

// Annotation is a labelled point of interest with an optional viewpoint
type Annotation struct {
	Title    string      `yaml:"title" json:"title"`
	Text     string      `yaml:"text,omitempty" json:"text,omitempty"`
	Position [3]float64  `yaml:"position" json:"position"`
	Camera   *CameraPose `yaml:"camera,omitempty" json:"camera,omitempty"`
}

// CameraPose is an authored viewpoint
type CameraPose struct {
	Position [3]float64 `yaml:"position" json:"position"`
	Target   [3]float64 `yaml:"target" json:"target"`
	FOV      *float64   `yaml:"fov,omitempty" json:"fov,omitempty"`
}

// Load reads and validates a settings file. YAML and JSON are both accepted.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a settings document
func Parse(data []byte) (*Settings, error) {
	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	s.migrate()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate fills fields that older documents did not carry
func (s *Settings) migrate() {
	if s.Camera.StartMode == "" {
		s.Camera.StartMode = StartDefault
	}
	for i := range s.AnimTracks {
		t := &s.AnimTracks[i]
		if t.FrameRate == 0 {
			t.FrameRate = legacyFrameRate
			for k := range t.Keyframes.Times {
				t.Keyframes.Times[k] *= legacyFrameRate
			}
		}
		if t.Smoothness == nil {
			zero := 0.0
			t.Smoothness = &zero
		}
	}
}

// Validate checks the document for values the camera core cannot use
func (s *Settings) Validate() error {
	switch s.Camera.StartMode {
	case StartDefault, StartAnimTrack, StartAnnotation:
	default:
		return fmt.Errorf("%w: unknown start mode %q", ErrInvalidSettings, s.Camera.StartMode)
	}
	if s.Camera.FOV != nil && (*s.Camera.FOV <= 0 || *s.Camera.FOV >= 180) {
		return fmt.Errorf("%w: fov %v out of range (0, 180)", ErrInvalidSettings, *s.Camera.FOV)
	}

	for i := range s.AnimTracks {
		if _, err := s.AnimTracks[i].Track(); err != nil {
			return fmt.Errorf("%w: track %d: %w", ErrInvalidSettings, i, err)
		}
	}
	return nil
}

// Track converts the authored track into an animation track
func (t *AnimTrack) Track() (*anim.Track, error) {
	loop, err := anim.ParseLoopMode(t.LoopMode)
	if err != nil {
		return nil, err
	}

	n := len(t.Keyframes.Times)
	if len(t.Keyframes.Values.Position) != n*3 {
		return nil, fmt.Errorf("%q: %d position values for %d keyframes", t.Name, len(t.Keyframes.Values.Position), n)
	}
	if len(t.Keyframes.Values.Target) != n*3 {
		return nil, fmt.Errorf("%q: %d target values for %d keyframes", t.Name, len(t.Keyframes.Values.Target), n)
	}

	keyframes := make([]anim.Keyframe, n)
	for i, time := range t.Keyframes.Times {
		p := t.Keyframes.Values.Position[i*3 : i*3+3]
		q := t.Keyframes.Values.Target[i*3 : i*3+3]
		keyframes[i] = anim.Keyframe{
			Time:     time,
			Position: mgl64.Vec3{p[0], p[1], p[2]},
			Target:   mgl64.Vec3{q[0], q[1], q[2]},
		}
	}

	smoothness := 0.0
	if t.Smoothness != nil {
		smoothness = *t.Smoothness
	}

	track := &anim.Track{
		Name:       t.Name,
		Keyframes:  keyframes,
		FrameRate:  t.FrameRate,
		Duration:   t.Duration,
		LoopMode:   loop,
		Smoothness: smoothness,
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	return track, nil
}

// FindTrack returns the named track, or the first track when name is empty
func (s *Settings) FindTrack(name string) (*AnimTrack, bool) {
	for i := range s.AnimTracks {
		if name == "" || s.AnimTracks[i].Name == name {
			return &s.AnimTracks[i], true
		}
	}
	return nil, false
}

// FOVOr returns the configured field of view, or fallback
func (s *Settings) FOVOr(fallback float64) float64 {
	if s.Camera.FOV != nil {
		return *s.Camera.FOV
	}
	return fallback
}

// AutoRotateOr returns the configured auto-rotate switch, or fallback
// when the document leaves it unset
func (s *Settings) AutoRotateOr(fallback bool) bool {
	if s.Camera.AutoRotate != nil {
		return *s.Camera.AutoRotate
	}
	return fallback
}

// HasStartPose reports whether the document names a starting position or target
func (s *Settings) HasStartPose() bool {
	return s.Camera.Position != nil || s.Camera.Target != nil
}

// ResetPose returns the authored start pose, defaulting to (2,1,2) looking at the origin
func (s *Settings) ResetPose(fov float64) camera.Pose {
	from := mgl64.Vec3{2, 1, 2}
	to := mgl64.Vec3{0, 0, 0}
	if s.Camera.Position != nil {
		from = mgl64.Vec3(*s.Camera.Position)
	}
	if s.Camera.Target != nil {
		to = mgl64.Vec3(*s.Camera.Target)
	}
	return camera.NewPose(from, to, fov)
}

// AnnotationPose returns the viewpoint of the first annotation that has one
func (s *Settings) AnnotationPose(fov float64) (camera.Pose, bool) {
	for _, a := range s.Annotations {
		if a.Camera == nil {
			continue
		}
		f := fov
		if a.Camera.FOV != nil {
			f = *a.Camera.FOV
		}
		return camera.NewPose(mgl64.Vec3(a.Camera.Position), mgl64.Vec3(a.Camera.Target), f), true
	}
	return camera.Pose{}, false
}

// Marshal encodes the document as YAML
func (s *Settings) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// TrackFromAnim converts an animation track back into its authored form
func TrackFromAnim(t *anim.Track) AnimTrack {
	out := AnimTrack{
		Name:       t.Name,
		Duration:   t.Duration,
		FrameRate:  t.FrameRate,
		LoopMode:   string(t.LoopMode),
		Smoothness: &t.Smoothness,
	}
	for _, k := range t.Keyframes {
		out.Keyframes.Times = append(out.Keyframes.Times, k.Time)
		out.Keyframes.Values.Position = append(out.Keyframes.Values.Position, k.Position[:]...)
		out.Keyframes.Values.Target = append(out.Keyframes.Values.Target, k.Target[:]...)
	}
	return out
}
