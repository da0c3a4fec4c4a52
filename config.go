package bough

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// ScrollConfig holds the physics constants of ScrollView and
// PagingScrollView. Distances are in pixels, velocities in pixels per
// second, factors are per deceleration step.
type ScrollConfig struct {
	// StretchFactor scales finger movement on an axis whose proposed offset
	// lies outside the boundaries (rubber band). Must be in [0, 1].
	StretchFactor float64 `toml:"stretch_factor"`

	// DecelerationInside and DecelerationOutside are the friction applied to
	// the scroll velocity each step, inside and outside the boundaries.
	DecelerationInside  float64 `toml:"deceleration_inside"`
	DecelerationOutside float64 `toml:"deceleration_outside"`

	// ConstraintStiffness is the fraction of the distance to the boundary
	// recovered each step by the spring.
	ConstraintStiffness float64 `toml:"constraint_stiffness"`

	// MaxSpeed clamps the spring correction per step.
	MaxSpeed float64 `toml:"max_speed"`

	// Deceleration stops once the velocity and the remaining distance to the
	// target are both below these thresholds.
	MinVelocityStopped float64 `toml:"min_velocity_stopped"`
	MinOffsetStopped   float64 `toml:"min_offset_stopped"`

	// TargetFrameRate fixes the simulation step to 1/TargetFrameRate.
	TargetFrameRate float64 `toml:"target_frame_rate"`

	// SwipeSamples is how many touch samples are kept to estimate the swipe
	// velocity; samples older than SwipeWindow seconds are ignored.
	SwipeSamples int     `toml:"swipe_samples"`
	SwipeWindow  float64 `toml:"swipe_window"`

	// PageSwipeVelocity and PageSwipeDistance are the thresholds both
	// exceeded by a swipe that changes page.
	PageSwipeVelocity float64 `toml:"page_swipe_velocity"`
	PageSwipeDistance float64 `toml:"page_swipe_distance"`

	// AnimationDuration is used by animated ScrollTo and GoToPage, in seconds.
	AnimationDuration float64 `toml:"animation_duration"`
}

// DefaultScrollConfig returns the tuned defaults.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{
		StretchFactor:       0.5,
		DecelerationInside:  0.05,
		DecelerationOutside: 0.3,
		ConstraintStiffness: 0.2,
		MaxSpeed:            100,
		MinVelocityStopped:  10,
		MinOffsetStopped:    0.5,
		TargetFrameRate:     60,
		SwipeSamples:        5,
		SwipeWindow:         0.1,
		PageSwipeVelocity:   300,
		PageSwipeDistance:   20,
		AnimationDuration:   0.3,
	}
}

// LoadScrollConfig decodes a TOML document over the defaults. Keys that do
// not name a ScrollConfig field are rejected.
//
//	stretch_factor = 0.4
//	page_swipe_velocity = 250
func LoadScrollConfig(data []byte) (ScrollConfig, error) {
	cfg := DefaultScrollConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return ScrollConfig{}, fmt.Errorf("decode scroll config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ScrollConfig{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range field.
func (c ScrollConfig) Validate() error {
	switch {
	case c.StretchFactor < 0 || c.StretchFactor > 1:
		return fmt.Errorf("scroll config: stretch_factor %v not in [0, 1]", c.StretchFactor)
	case c.DecelerationInside < 0 || c.DecelerationInside >= 1:
		return fmt.Errorf("scroll config: deceleration_inside %v not in [0, 1)", c.DecelerationInside)
	case c.DecelerationOutside < 0 || c.DecelerationOutside >= 1:
		return fmt.Errorf("scroll config: deceleration_outside %v not in [0, 1)", c.DecelerationOutside)
	case c.ConstraintStiffness <= 0 || c.ConstraintStiffness > 1:
		return fmt.Errorf("scroll config: constraint_stiffness %v not in (0, 1]", c.ConstraintStiffness)
	case c.MaxSpeed <= 0:
		return errors.New("scroll config: max_speed must be positive")
	case c.TargetFrameRate <= 0:
		return errors.New("scroll config: target_frame_rate must be positive")
	case c.SwipeSamples < 2:
		return errors.New("scroll config: swipe_samples must be at least 2")
	case c.SwipeWindow <= 0:
		return errors.New("scroll config: swipe_window must be positive")
	case c.MinVelocityStopped < 0 || c.MinOffsetStopped < 0:
		return errors.New("scroll config: stop thresholds must not be negative")
	}
	return nil
}

// RunConfig configures Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowFPS adds an FPS overlay on top of the graph.
	ShowFPS bool
	// MultiTouch reports touches individually instead of synthesizing a
	// single touch from the mouse.
	MultiTouch bool
	// ClearColor fills the screen before the graph draws. Zero leaves the
	// screen as ebiten cleared it.
	ClearColor Color
	// TPS overrides ebiten's ticks per second when positive.
	TPS int
	// ScrollConfig, when set, is installed with SetDefaultScrollConfig
	// before the window opens. Scroll views created earlier keep theirs.
	ScrollConfig *ScrollConfig
}
