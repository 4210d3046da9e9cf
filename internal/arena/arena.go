// Package arena is a two-player pong table built on the physics engine.
//
// Gameplay attaches to physics only through collision callbacks and force
// generators. Callbacks record what happened; the consequences (ball
// speed-up, scoring, serving) are applied after the collision pass so the
// engine never sees bodies move under it mid-pass.
package arena

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeusync/kinetic/internal/core/events/bus"
	"github.com/zeusync/kinetic/internal/core/observability/log"
	"github.com/zeusync/kinetic/internal/core/systems/physics"
	"github.com/zeusync/kinetic/internal/core/systems/physics/body"
	"github.com/zeusync/kinetic/internal/core/systems/physics/force"
	"github.com/zeusync/kinetic/internal/core/systems/physics/shape"
	"github.com/zeusync/kinetic/pkg/vmath"
)

// Body keys, in registration order.
const (
	KeyWallTop     = "wall-top"
	KeyWallBottom  = "wall-bottom"
	KeyGoalLeft    = "goal-left"
	KeyGoalRight   = "goal-right"
	KeyPaddleLeft  = "paddle-left"
	KeyPaddleRight = "paddle-right"
	KeyBall        = "ball"
)

// Event types published on the bus.
const (
	EventPaddleHit = "arena.paddle_hit"
	EventGoal      = "arena.goal"
)

const (
	source          = "arena"
	paddleClearance = 0.05
)

var ErrUnknownSide = errors.New("unknown side")

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ParseSide is the inverse of Side.String.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownSide)
	}
}

func (s Side) other() Side { return 1 - s }

// direction is the X sign a ball leaving this side's paddle travels in.
func (s Side) direction() float64 {
	if s == Left {
		return 1
	}
	return -1
}

// PaddleHit is the payload of EventPaddleHit.
type PaddleHit struct {
	Side  Side
	Speed float64
}

// Goal is the payload of EventGoal.
type Goal struct {
	Scorer Side
	Score  [2]int
}

type paddleContact struct {
	side    Side
	inbound vmath.Vec3
}

type Arena struct {
	config Config
	world  physics.World
	events bus.EventBus
	logger log.Log

	ball    *body.Body
	paddles [2]*body.Body
	laneX   [2]float64

	input [2]float64
	score [2]int

	// lastReturn is the side that last returned the ball; -1 after a serve.
	lastReturn Side

	// filled by callbacks during CheckColliders, drained by settle
	hit      *paddleContact
	conceded *Side
}

// New builds the table and registers its bodies and forces with world.
// world must be empty.
func New(config Config, world physics.World, events bus.EventBus, logger log.Log) (*Arena, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}
	if events == nil {
		events = bus.New()
	}

	a := &Arena{
		config:     config,
		world:      world,
		events:     events,
		logger:     logger.With(log.String("component", "arena")),
		lastReturn: -1,
	}
	if err := a.build(); err != nil {
		return nil, fmt.Errorf("build arena: %w", err)
	}
	a.serve(Right)
	return a, nil
}

func (a *Arena) build() error {
	c := a.config
	t := c.WallThickness
	halfL, halfW := c.Length/2, c.Width/2

	wall, err := shape.NewBoxCollider(vmath.Zero3, c.Length, t, 1)
	if err != nil {
		return err
	}
	goal, err := shape.NewBoxCollider(vmath.Zero3, t, c.Width+2*t, 1)
	if err != nil {
		return err
	}
	paddle, err := shape.NewBoxCollider(vmath.Zero3, c.PaddleThickness, c.PaddleSpan, 1)
	if err != nil {
		return err
	}
	ball, err := shape.NewSphereCollider(vmath.Zero3, c.BallRadius)
	if err != nil {
		return err
	}

	// goals sit half a unit behind the wall ends so no static pair touches
	goalX := halfL + 0.5 + t/2
	statics := []struct {
		key string
		b   *body.Body
	}{
		{KeyWallTop, body.NewStatic(body.WithTag(KeyWallTop), body.WithCollider(wall),
			body.WithPosition(vmath.V3(0, 0, halfW+t/2)))},
		{KeyWallBottom, body.NewStatic(body.WithTag(KeyWallBottom), body.WithCollider(wall),
			body.WithPosition(vmath.V3(0, 0, -halfW-t/2)))},
		{KeyGoalLeft, body.NewStatic(body.WithTag(KeyGoalLeft), body.WithCollider(goal), body.WithTrigger(),
			body.WithPosition(vmath.V3(-goalX, 0, 0)), body.WithOnCollision(a.onGoal(Left)))},
		{KeyGoalRight, body.NewStatic(body.WithTag(KeyGoalRight), body.WithCollider(goal), body.WithTrigger(),
			body.WithPosition(vmath.V3(goalX, 0, 0)), body.WithOnCollision(a.onGoal(Right)))},
	}
	for _, s := range statics {
		if err = a.world.RegisterBody(s.key, s.b); err != nil {
			return err
		}
	}

	a.laneX = [2]float64{-(halfL - c.PaddleInset), halfL - c.PaddleInset}
	for side, key := range []string{KeyPaddleLeft, KeyPaddleRight} {
		p, err := body.New(c.PaddleMass,
			body.WithTag(key),
			body.WithCollider(paddle),
			body.WithPosition(vmath.V3(a.laneX[side], 0, 0)),
			body.WithOnCollision(a.onPaddle(Side(side))),
		)
		if err != nil {
			return err
		}
		if err = a.world.RegisterBody(key, p); err != nil {
			return err
		}
		a.paddles[side] = p
	}

	a.ball, err = body.New(c.BallMass, body.WithTag(KeyBall), body.WithCollider(ball))
	if err != nil {
		return err
	}
	if err = a.world.RegisterBody(KeyBall, a.ball); err != nil {
		return err
	}

	a.world.RegisterForce(
		force.Drag{K: c.PaddleDrag, Bodies: a.paddles[:]},
		force.BodyForceApplier{Body: a.paddles[Left], Fn: a.steer(Left)},
		force.BodyForceApplier{Body: a.paddles[Right], Fn: a.steer(Right)},
	)

	a.logger.Info("arena built",
		log.Float64("length", c.Length),
		log.Float64("width", c.Width),
		log.Strings("bodies", a.world.Keys()),
	)
	return nil
}

func (a *Arena) steer(side Side) func(*body.Body) vmath.Vec3 {
	return func(*body.Body) vmath.Vec3 {
		return vmath.V3(0, 0, a.input[side]*a.config.PaddleForce)
	}
}

func (a *Arena) onPaddle(side Side) body.CollisionFunc {
	return func(_, other *body.Body, _ shape.Contact) {
		if other != a.ball || a.lastReturn == side {
			return
		}
		a.hit = &paddleContact{side: side, inbound: a.ball.V}
	}
}

func (a *Arena) onGoal(side Side) body.CollisionFunc {
	return func(_, other *body.Body, _ shape.Contact) {
		if other != a.ball || a.conceded != nil {
			return
		}
		a.conceded = &side
	}
}

// SetInput sets a paddle's steering axis, clamped to [-1, 1]. Positive
// moves toward +Z.
func (a *Arena) SetInput(side Side, axis float64) error {
	if side != Left && side != Right {
		return fmt.Errorf("%s: %w", side, ErrUnknownSide)
	}
	if math.IsNaN(axis) {
		axis = 0
	}
	a.input[side] = math.Max(-1, math.Min(1, axis))
	return nil
}

// Tick advances the table by dt. Paddles are snapped back onto their lanes
// between integration and the collision pass.
func (a *Arena) Tick(dt float64) error {
	if err := a.world.Step(dt); err != nil {
		return err
	}
	a.constrain()
	if err := a.world.CheckColliders(); err != nil {
		return err
	}
	return a.settle()
}

// constrain keeps paddles on their lanes and clear of the walls.
func (a *Arena) constrain() {
	limit := a.config.Width/2 - a.config.PaddleSpan/2 - paddleClearance
	for side, p := range a.paddles {
		z := p.Position().Z
		vz := p.V.Z
		if z >= limit {
			z, vz = limit, math.Min(vz, 0)
		}
		if z <= -limit {
			z, vz = -limit, math.Max(vz, 0)
		}
		p.Teleport(vmath.V3(a.laneX[side], 0, z), vmath.V3(0, 0, vz))
	}
}

func (a *Arena) settle() error {
	tick := a.world.Ticks()
	var errs []error

	if hit := a.hit; hit != nil {
		a.hit = nil
		speed := math.Min(hit.inbound.Norm()*a.config.SpeedUp, a.config.MaxBallSpeed)
		paddle := a.paddles[hit.side]
		out := vmath.V3(
			hit.side.direction()*math.Abs(hit.inbound.X),
			0,
			hit.inbound.Z+a.config.Spin*paddle.V.Z,
		).Normalize().Scale(speed)
		a.ball.V = out
		a.lastReturn = hit.side

		a.logger.Debug("paddle hit", log.String("side", hit.side.String()), log.Float64("speed", speed))
		if err := a.events.Publish(bus.NewEvent(EventPaddleHit, source, tick, PaddleHit{Side: hit.side, Speed: speed})); err != nil {
			errs = append(errs, err)
		}
	}

	if conceded := a.conceded; conceded != nil {
		a.conceded = nil
		scorer := conceded.other()
		a.score[scorer]++
		a.serve(*conceded)

		a.logger.Info("goal",
			log.String("scorer", scorer.String()),
			log.Int("left", a.score[Left]),
			log.Int("right", a.score[Right]),
		)
		if err := a.events.Publish(bus.NewEvent(EventGoal, source, tick, Goal{Scorer: scorer, Score: a.score})); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// serve puts the ball back in the middle heading toward side.
func (a *Arena) serve(toward Side) {
	dir := -toward.direction()
	v := vmath.V3(dir*math.Cos(a.config.ServeAngle), 0, math.Sin(a.config.ServeAngle)).Scale(a.config.BallSpeed)
	a.ball.Teleport(vmath.Zero3, v)
	a.lastReturn = -1
}

func (a *Arena) Score() [2]int { return a.score }

func (a *Arena) Ball() *body.Body { return a.ball }

func (a *Arena) Paddle(side Side) *body.Body { return a.paddles[side] }

func (a *Arena) Events() bus.EventBus { return a.events }

func (a *Arena) World() physics.World { return a.world }
