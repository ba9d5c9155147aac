// Package sim runs a disaster drill session frame by frame.
//
// Every frame runs the same fixed order: camera input, player movement,
// collision, environment effects, camera pose, then the HUD snapshot.
// A Session is not safe for concurrent use; one goroutine owns it.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/drillsim/drillsim/internal/camera"
	"github.com/drillsim/drillsim/internal/collision"
	"github.com/drillsim/drillsim/internal/effects"
	"github.com/drillsim/drillsim/internal/goals"
	"github.com/drillsim/drillsim/internal/player"
	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
)

// ErrNoGoals is returned for a scenario without checkpoints
var ErrNoGoals = errors.New("scenario has no goals")

// Config groups engine and component tunables
type Config struct {
	TickRate        int     `mapstructure:"tickRate"`
	MaxFrameDelta   float64 `mapstructure:"maxFrameDelta"`
	WorldHalfExtent float64 `mapstructure:"worldHalfExtent"`
	Seed            int64   `mapstructure:"seed"`

	Player    player.Config
	Camera    camera.Config
	Collision collision.Config
}

// DefaultConfig returns the stock engine configuration
func DefaultConfig() Config {
	return Config{
		TickRate:        60,
		MaxFrameDelta:   0.1,
		WorldHalfExtent: 50,
		Player:          player.DefaultConfig(),
		Camera:          camera.DefaultConfig(),
		Collision:       collision.DefaultConfig(),
	}
}

// FrameInterval is the wall time between frames at the configured tick rate
func (c Config) FrameInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// FrameSample is the per-frame telemetry handed to a frame observer
type FrameSample struct {
	SessionID      string
	Disaster       core.DisasterType
	Frame          uint64
	Elapsed        float64
	StepDuration   time.Duration
	ActiveEntities int
	Health         float64
	Score          int
	WaterLevel     float64
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithID overrides the generated session id
func WithID(id uuid.UUID) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithOnComplete registers the callback fired once when the last goal is reached
func WithOnComplete(fn func(core.CompletionEvent)) Option {
	return func(s *Session) {
		s.onComplete = fn
	}
}

// WithFrameObserver registers a callback that receives every frame sample.
// It runs on the frame goroutine and must not block.
func WithFrameObserver(fn func(FrameSample)) Option {
	return func(s *Session) {
		s.onFrame = fn
	}
}

// SimulationState is all mutable state of one session
type SimulationState struct {
	Registry *scene.Registry
	Player   player.State
	Goals    *goals.Tracker
	Rig      *camera.Rig
	Effects  effects.Module

	Frame   uint64
	Elapsed float64
	View    camera.View
}

// Session owns a SimulationState and the components that advance it
type Session struct {
	id       uuid.UUID
	cfg      Config
	scenario core.Scenario
	state    SimulationState

	controller *player.Controller
	resolver   *collision.Resolver

	// optional module capabilities, resolved once
	water  effects.WaterSource
	wind   effects.WindSource
	shaker effects.Shaker

	snapshot core.Snapshot
	result   *core.CompletionEvent

	onComplete func(core.CompletionEvent)
	onFrame    func(FrameSample)
	logger     zerolog.Logger
	metrics    *instruments
	attrs      metric.MeasurementOption
}

// New builds a session for sc: it spawns goal markers and placements, then
// lets the disaster module spawn everything it owns.
func New(cfg Config, sc core.Scenario, opts ...Option) (*Session, error) {
	if len(sc.Goals) == 0 {
		return nil, ErrNoGoals
	}
	cfg.Player.WorldHalfExtent = cfg.WorldHalfExtent
	cfg.Collision.WorldHalfExtent = cfg.WorldHalfExtent

	mod, err := effects.New(sc.Disaster, effects.Config{
		WorldHalfExtent: cfg.WorldHalfExtent,
		MoveSpeed:       cfg.Player.MoveSpeed,
		HazardRadius:    cfg.Collision.HazardRadius,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	m, err := newInstruments()
	if err != nil {
		return nil, fmt.Errorf("creating session metrics: %w", err)
	}

	s := &Session{
		id:       uuid.New(),
		cfg:      cfg,
		scenario: sc,
		logger:   zerolog.Nop(),
		metrics:  m,
		attrs:    disasterAttrs(string(sc.Disaster)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "sim").Str("session", s.id.String()).Logger()

	reg := scene.NewRegistry(512)
	s.state = SimulationState{
		Registry: reg,
		Player:   player.NewState(mgl64.Vec3{}),
		Goals:    goals.NewTracker(sc.Goals),
		Rig:      camera.NewRig(cfg.Camera),
		Effects:  mod,
	}
	s.controller = player.NewController(cfg.Player)
	s.resolver = collision.NewResolver(cfg.Collision, reg, &s.state.Player, s.state.Goals, s.logger)

	for i, g := range sc.Goals {
		reg.Spawn(scene.KindGoal, g.Position, &scene.GoalMarker{Index: i, Description: g.Description})
	}
	for i, p := range sc.Placements {
		switch p.Kind {
		case core.PlacementObstacle:
			reg.Spawn(scene.KindObstacle, p.Position, &scene.Obstacle{Type: p.Type, Damage: p.Damage})
		case core.PlacementCollectible:
			reg.Spawn(scene.KindCollectible, p.Position, &scene.Item{
				ItemID:      fmt.Sprintf("%s-%d", p.Type, i),
				Type:        p.Type,
				Points:      p.Points,
				HealthBonus: p.HealthBonus,
			})
		default:
			s.logger.Warn().Str("kind", string(p.Kind)).Int("index", i).Msg("Skipping placement of unknown kind")
		}
	}

	seed := sc.Seed
	if seed == 0 {
		seed = cfg.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	mod.Init(reg, rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)))

	s.water, _ = mod.(effects.WaterSource)
	s.wind, _ = mod.(effects.WindSource)
	s.shaker, _ = mod.(effects.Shaker)

	s.state.View = s.state.Rig.View(s.state.Player.Position)
	s.snapshot = s.buildSnapshot()

	s.logger.Info().
		Str("scenario", sc.Name).
		Str("disaster", string(sc.Disaster)).
		Int("goals", len(sc.Goals)).
		Int("entities", reg.Len()).
		Int64("seed", seed).
		Msg("Session created")
	return s, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id.String()
}

// Scenario returns the scenario the session was built from
func (s *Session) Scenario() core.Scenario {
	return s.scenario
}

// State exposes the simulation state for inspection. Callers must not
// mutate it while the session is running.
func (s *Session) State() *SimulationState {
	return &s.state
}

// Snapshot returns the read model of the last completed frame
func (s *Session) Snapshot() core.Snapshot {
	return s.snapshot
}

// Completed reports whether the goal sequence is finished
func (s *Session) Completed() bool {
	return s.result != nil
}

// Result returns the completion event once the session has completed
func (s *Session) Result() (core.CompletionEvent, bool) {
	if s.result == nil {
		return core.CompletionEvent{}, false
	}
	return *s.result, true
}

// Step advances the session by dt seconds and returns the new snapshot.
// dt is clamped to [0, MaxFrameDelta]. A completed session no longer advances.
func (s *Session) Step(in core.Input, dt float64) core.Snapshot {
	if s.result != nil {
		return s.snapshot
	}
	start := time.Now()
	dt = vmath.Clamp(dt, 0, s.cfg.MaxFrameDelta)

	st := &s.state
	st.Frame++
	st.Elapsed += dt

	st.Rig.ApplyPointer(in.PointerDX, in.PointerDY)

	env := s.surroundings()
	s.controller.Update(&st.Player, dt, in, st.Rig.AngleH, env)

	rep := s.resolver.Resolve(collision.Water{Present: env.HasWater, Level: env.WaterLevel})
	if rep.GoalReached {
		s.metrics.goals.Add(context.Background(), 1, s.attrs)
	}

	st.Effects.Update(effects.FrameContext{
		Dt:      dt,
		Elapsed: st.Elapsed,
		Player:  &st.Player,
		Sink:    s.resolver,
	})

	if s.shaker != nil {
		st.Rig.SetShake(s.shaker.ShakeOffset())
	}
	st.View = st.Rig.View(st.Player.Position)
	s.snapshot = s.buildSnapshot()

	if rep.Completed {
		s.complete()
	}

	took := time.Since(start)
	s.metrics.frame(s.attrs, float64(took.Microseconds())/1000)
	if s.onFrame != nil {
		s.onFrame(FrameSample{
			SessionID:      s.id.String(),
			Disaster:       s.scenario.Disaster,
			Frame:          st.Frame,
			Elapsed:        st.Elapsed,
			StepDuration:   took,
			ActiveEntities: st.Registry.Alive(),
			Health:         st.Player.Health,
			Score:          st.Goals.Score(),
			WaterLevel:     s.snapshot.WaterLevel,
		})
	}
	return s.snapshot
}

func (s *Session) surroundings() player.Surroundings {
	var env player.Surroundings
	if s.water != nil {
		env.HasWater = true
		env.WaterLevel = s.water.WaterLevel()
	}
	if s.wind != nil {
		env.WindDir, env.WindStrength = s.wind.Wind()
	}
	// ladders stand on the ground, so reach is measured at their base
	p := s.state.Player.Position
	if l := s.state.Registry.Nearest(scene.KindLadder, mgl64.Vec3{p.X(), 0, p.Z()}, s.cfg.Player.LadderRadius); l != nil {
		if ld, ok := l.Data.(*scene.Ladder); ok {
			env.Ladder = &player.LadderContact{Base: l.Position, Height: ld.Height}
		}
	}
	return env
}

func (s *Session) complete() {
	st := &s.state
	ev := core.CompletionEvent{
		Success:           true,
		Score:             st.Goals.Score(),
		Time:              st.Elapsed,
		Health:            st.Player.Health,
		CollectiblesCount: len(st.Player.Collected),
	}
	s.result = &ev
	s.metrics.completed.Add(context.Background(), 1, s.attrs)
	s.logger.Info().
		Int("score", ev.Score).
		Float64("time", ev.Time).
		Float64("health", ev.Health).
		Int("collectibles", ev.CollectiblesCount).
		Msg("Session completed")
	if s.onComplete != nil {
		s.onComplete(ev)
	}
}

func (s *Session) buildSnapshot() core.Snapshot {
	st := &s.state
	snap := core.Snapshot{
		Frame:             st.Frame,
		Elapsed:           st.Elapsed,
		Health:            st.Player.Health,
		Score:             st.Goals.Score(),
		Status:            st.Player.Status,
		GoalIndex:         st.Goals.Index(),
		GoalCount:         st.Goals.Len(),
		Completed:         st.Goals.Completed(),
		PlayerPosition:    st.Player.Position,
		PlayerYaw:         st.Player.Yaw,
		Mode:              st.Player.Mode().String(),
		CameraPosition:    st.View.Eye,
		CameraTarget:      st.View.Target,
		CameraYaw:         st.Rig.AngleH,
		CollectiblesCount: len(st.Player.Collected),
		ActiveEntities:    st.Registry.Alive(),
	}
	if g, ok := st.Goals.Active(); ok {
		snap.GoalDescription = g.Description
		snap.GoalPosition = g.Position
	}
	if s.water != nil {
		snap.WaterLevel = s.water.WaterLevel()
	}
	if s.wind != nil {
		_, snap.WindStrength = s.wind.Wind()
	}
	return snap
}
