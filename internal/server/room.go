package server

import (
	"context"
	"fmt"
	"time"

	"github.com/zeusync/kinetic/internal/arena"
	"github.com/zeusync/kinetic/internal/core/events/bus"
	"github.com/zeusync/kinetic/internal/core/observability/log"
)

const sideAuto = "auto"

// Room owns one arena and drives it from a single goroutine: a fixed-rate
// ticker steps the simulation and an inbox carries joins, inputs and leaves
// from connection goroutines.
type Room struct {
	config Config
	arena  *arena.Arena
	logger log.Log

	inbox chan any
	done  chan struct{}

	clients map[string]*client
	// order of joins, for deterministic broadcast order
	order []string
	sides [2]string
	dt    float64
}

func NewRoom(config Config, a *arena.Arena, logger log.Log) (*Room, error) {
	if logger == nil {
		logger = log.NewNop()
	}
	r := &Room{
		config:  config,
		arena:   a,
		logger:  logger.With(log.String("component", "room")),
		inbox:   make(chan any, config.InboxSize),
		done:    make(chan struct{}),
		clients: make(map[string]*client),
		dt:      config.TickDuration().Seconds(),
	}
	if _, err := a.Events().Subscribe(arena.EventGoal, r.onGoal); err != nil {
		return nil, err
	}
	return r, nil
}

// Run ticks the room until ctx is cancelled. It disconnects every client
// before returning.
func (r *Room) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.config.TickDuration())
	defer ticker.Stop()
	defer r.close()

	r.logger.Info("room started",
		log.Int("tick_rate", r.config.TickRate),
		log.Int("broadcast_every", r.config.BroadcastEvery),
	)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("room stopped", log.Uint64("ticks", r.arena.World().Ticks()))
			return nil
		case cmd := <-r.inbox:
			r.handleCommand(cmd)
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) tick() {
	if err := r.arena.Tick(r.dt); err != nil {
		r.logger.Error("tick failed", log.Error(err))
	}
	if r.arena.World().Ticks()%uint64(r.config.BroadcastEvery) == 0 {
		r.broadcastState()
	}
}

func (r *Room) handleCommand(cmd any) {
	switch c := cmd.(type) {
	case join:
		side, err := r.join(c.client, c.side)
		c.reply <- joinResult{side: side, err: err}
	case input:
		r.input(c.clientID, c.axis)
	case leave:
		r.remove(c.clientID)
	case statsRequest:
		c.reply <- r.stats()
	}
}

func (r *Room) join(c *client, requested string) (string, error) {
	if len(r.clients) >= r.config.MaxClients {
		return "", ErrMaxClientsReached
	}

	side := ""
	switch requested {
	case "":
	case sideAuto:
		for s, holder := range r.sides {
			if holder == "" {
				side = arena.Side(s).String()
				break
			}
		}
	default:
		s, err := arena.ParseSide(requested)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidMessage, err)
		}
		if r.sides[s] != "" {
			return "", fmt.Errorf("%s: %w", s, ErrSideTaken)
		}
		side = requested
	}

	if side != "" {
		s, _ := arena.ParseSide(side)
		r.sides[s] = c.id
	}
	c.side = side
	r.clients[c.id] = c
	r.order = append(r.order, c.id)

	r.logger.Info("client joined", log.String("client", c.id), log.String("side", side))
	r.sendTo(c, Frame{Type: FrameWelcome, Client: c.id, Side: side, Score: r.arena.Score()})
	return side, nil
}

func (r *Room) input(clientID string, axis float64) {
	c, ok := r.clients[clientID]
	if !ok || c.side == "" {
		return
	}
	s, _ := arena.ParseSide(c.side)
	_ = r.arena.SetInput(s, axis)
}

func (r *Room) remove(clientID string) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	if c.side != "" {
		s, _ := arena.ParseSide(c.side)
		r.sides[s] = ""
		_ = r.arena.SetInput(s, 0)
	}
	delete(r.clients, clientID)
	for i, id := range r.order {
		if id == clientID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	close(c.send)
	r.logger.Info("client left", log.String("client", clientID))
}

func (r *Room) onGoal(e bus.Event) error {
	goal, ok := e.Data().(arena.Goal)
	if !ok {
		return fmt.Errorf("goal event carries %T: %w", e.Data(), ErrInvalidMessage)
	}
	r.broadcast(Frame{Type: FrameGoal, Side: goal.Scorer.String(), Score: goal.Score})
	return nil
}

func (r *Room) broadcastState() {
	r.broadcast(Frame{Type: FrameState, Score: r.arena.Score(), Snapshot: r.arena.World().Capture()})
}

func (r *Room) broadcast(f Frame) {
	if len(r.clients) == 0 {
		return
	}
	b, err := encodeFrame(f)
	if err != nil {
		r.logger.Error("encode frame", log.String("type", f.Type), log.Error(err))
		return
	}

	var slow []string
	for _, id := range r.order {
		if !r.clients[id].offer(b) {
			slow = append(slow, id)
		}
	}
	for _, id := range slow {
		r.logger.Warn("dropping slow client", log.String("client", id))
		r.remove(id)
	}
}

func (r *Room) sendTo(c *client, f Frame) {
	b, err := encodeFrame(f)
	if err != nil {
		r.logger.Error("encode frame", log.String("type", f.Type), log.Error(err))
		return
	}
	c.offer(b)
}

func (r *Room) stats() Stats {
	world := r.arena.World()
	return Stats{
		Clients:  len(r.clients),
		Ticks:    world.Ticks(),
		Elapsed:  world.Elapsed(),
		Score:    r.arena.Score(),
		Left:     r.sides[arena.Left],
		Right:    r.sides[arena.Right],
		Checksum: world.Capture().Checksum,
	}
}

func (r *Room) close() {
	for _, id := range append([]string(nil), r.order...) {
		r.remove(id)
	}
	close(r.done)
}

// submit hands cmd to the room, giving up when ctx ends or the room stops.
func (r *Room) submit(ctx context.Context, cmd any) error {
	select {
	case <-r.done:
		return ErrServerClosed
	default:
	}
	select {
	case r.inbox <- cmd:
		return nil
	case <-r.done:
		return ErrServerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats asks the room goroutine for a snapshot of its state.
func (r *Room) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	if err := r.submit(ctx, statsRequest{reply: reply}); err != nil {
		return Stats{}, err
	}
	select {
	case s := <-reply:
		return s, nil
	case <-r.done:
		return Stats{}, ErrServerClosed
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}
