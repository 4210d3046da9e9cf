package arena

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid arena configuration")

// Config sizes the table. The long axis is X (goals at both ends), the
// short axis is Z (walls on both sides). Paddles slide along Z.
type Config struct {
	Length        float64 `yaml:"length"`
	Width         float64 `yaml:"width"`
	WallThickness float64 `yaml:"wall_thickness"`

	PaddleInset     float64 `yaml:"paddle_inset"`
	PaddleThickness float64 `yaml:"paddle_thickness"`
	PaddleSpan      float64 `yaml:"paddle_span"`
	PaddleMass      float64 `yaml:"paddle_mass"`
	PaddleForce     float64 `yaml:"paddle_force"`
	PaddleDrag      float64 `yaml:"paddle_drag"`

	BallRadius   float64 `yaml:"ball_radius"`
	BallMass     float64 `yaml:"ball_mass"`
	BallSpeed    float64 `yaml:"ball_speed"`
	MaxBallSpeed float64 `yaml:"max_ball_speed"`
	ServeAngle   float64 `yaml:"serve_angle"`

	// SpeedUp multiplies the ball speed on every paddle return.
	SpeedUp float64 `yaml:"speed_up"`
	// Spin is the share of the paddle's Z velocity passed to the ball.
	Spin float64 `yaml:"spin"`
}

func DefaultConfig() Config {
	return Config{
		Length:          20,
		Width:           12,
		WallThickness:   1,
		PaddleInset:     1,
		PaddleThickness: 0.5,
		PaddleSpan:      3,
		PaddleMass:      50,
		PaddleForce:     1500,
		PaddleDrag:      3,
		BallRadius:      0.4,
		BallMass:        1,
		BallSpeed:       8,
		MaxBallSpeed:    24,
		ServeAngle:      0.3,
		SpeedUp:         1.1,
		Spin:            0.3,
	}
}

func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"length", c.Length},
		{"width", c.Width},
		{"wall_thickness", c.WallThickness},
		{"paddle_thickness", c.PaddleThickness},
		{"paddle_span", c.PaddleSpan},
		{"paddle_mass", c.PaddleMass},
		{"ball_radius", c.BallRadius},
		{"ball_mass", c.BallMass},
		{"ball_speed", c.BallSpeed},
	} {
		if !(f.value > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", f.name, f.value))
		}
	}
	if c.PaddleSpan >= c.Width {
		errs = append(errs, fmt.Errorf("paddle_span %g must be below width %g", c.PaddleSpan, c.Width))
	}
	if c.PaddleInset <= 0 || c.PaddleInset >= c.Length/2 {
		errs = append(errs, fmt.Errorf("paddle_inset %g out of range", c.PaddleInset))
	}
	if c.MaxBallSpeed < c.BallSpeed {
		errs = append(errs, fmt.Errorf("max_ball_speed %g below ball_speed %g", c.MaxBallSpeed, c.BallSpeed))
	}
	if c.SpeedUp < 1 {
		errs = append(errs, fmt.Errorf("speed_up %g below 1", c.SpeedUp))
	}
	if c.PaddleForce < 0 || c.PaddleDrag < 0 || c.Spin < 0 {
		errs = append(errs, errors.New("paddle_force, paddle_drag and spin must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
