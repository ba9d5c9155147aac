package main

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode"

	"github.com/drillsim/drillsim/internal/queue"
	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/gdamore/tcell/v2"
)

const (
	// terminals repeat held keys, so a movement key counts as held for a
	// short while after each press
	holdFor     = 250 * time.Millisecond
	pointerStep = 40.0

	hudLines = 3

	// world meters per terminal cell; cells are roughly twice as tall as wide
	metersPerCol = 1.0
	metersPerRow = 2.0
)

// keyboard turns terminal key events into per-frame input. Events arrive on
// the poll goroutine and are applied on the frame goroutine in Next.
type keyboard struct {
	events *queue.Queue[tcell.Event]
	now    func() time.Time

	pressed map[rune]time.Time
	jump    bool
	dx, dy  float64
	paused  bool

	quit   func()
	resize func()
}

func newKeyboard(quit, resize func()) *keyboard {
	return &keyboard{
		events:  queue.New[tcell.Event](64),
		now:     time.Now,
		pressed: make(map[rune]time.Time),
		quit:    quit,
		resize:  resize,
	}
}

func (k *keyboard) poll(screen tcell.Screen) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		k.events.Push(ev)
	}
}

func (k *keyboard) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		k.key(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		if k.resize != nil {
			k.resize()
		}
	}
}

func (k *keyboard) key(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		k.stop()
	case tcell.KeyLeft:
		k.dx -= pointerStep
	case tcell.KeyRight:
		k.dx += pointerStep
	case tcell.KeyUp:
		k.dy -= pointerStep
	case tcell.KeyDown:
		k.dy += pointerStep
	case tcell.KeyRune:
		switch r = unicode.ToLower(r); r {
		case 'w', 'a', 's', 'd':
			k.pressed[r] = k.now()
		case ' ':
			k.jump = true
		case 'p':
			k.paused = !k.paused
		case 'q':
			k.stop()
		}
	}
}

func (k *keyboard) stop() {
	if k.quit != nil {
		k.quit()
	}
}

func (k *keyboard) held(r rune, now time.Time) bool {
	at, ok := k.pressed[r]
	return ok && now.Sub(at) < holdFor
}

// Next drains pending events and returns the input for this frame. Jump and
// pointer deltas are consumed.
func (k *keyboard) Next() core.Input {
	for _, ev := range k.events.GetAndEmpty() {
		k.handle(ev)
	}
	now := k.now()
	in := core.Input{
		Forward:   k.held('w', now),
		Backward:  k.held('s', now),
		Left:      k.held('a', now),
		Right:     k.held('d', now),
		Jump:      k.jump,
		PointerDX: k.dx,
		PointerDY: k.dy,
	}
	k.jump = false
	k.dx, k.dy = 0, 0
	return in
}

func (k *keyboard) Paused() bool {
	return k.paused
}

var (
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePlayer   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleGoal     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Reverse(true)
	styleItem     = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleSolid    = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleHazard   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleAmbient  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleWater    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleCritical = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func glyph(k scene.Kind) (rune, tcell.Style) {
	switch k {
	case scene.KindGoal:
		return 'G', styleGoal
	case scene.KindCollectible:
		return '+', styleItem
	case scene.KindObstacle:
		return '#', styleSolid
	case scene.KindTree:
		return 'T', styleSolid
	case scene.KindLadder:
		return 'H', styleSolid
	case scene.KindDebris, scene.KindBoulder:
		return 'o', styleHazard
	case scene.KindFlyingDebris:
		return '*', styleHazard
	case scene.KindSnowball:
		return 'O', styleHazard
	case scene.KindFireSource:
		return '^', styleHazard
	case scene.KindCrowdMember:
		return 'x', styleHazard
	case scene.KindFloatingObject:
		return '=', styleWater
	case scene.KindWaveParticle, scene.KindRainDrop:
		return '~', styleWater
	default:
		return '.', styleAmbient
	}
}

// screenRenderer draws a top-down map centered on the player, north up,
// with the HUD above it
type screenRenderer struct {
	screen  tcell.Screen
	session *sim.Session
	paused  func() bool
}

func (r *screenRenderer) origin() (int, int) {
	w, h := r.screen.Size()
	return w / 2, hudLines + (h-hudLines)/2
}

func (r *screenRenderer) cell(p, center core.Vec3) (int, int) {
	cx, cy := r.origin()
	x := cx + int(math.Round((p.X()-center.X())/metersPerCol))
	y := cy + int(math.Round((p.Z()-center.Z())/metersPerRow))
	return x, y
}

func (r *screenRenderer) Render(snap core.Snapshot) {
	r.screen.Clear()
	w, h := r.screen.Size()
	center := snap.PlayerPosition

	plot := func(p core.Vec3, ch rune, st tcell.Style) {
		x, y := r.cell(p, center)
		if x < 0 || x >= w || y < hudLines || y >= h {
			return
		}
		r.screen.SetContent(x, y, ch, nil, st)
	}

	// ambient kinds first so solid and hazard glyphs win shared cells
	reg := r.session.State().Registry
	for pass := 0; pass < 2; pass++ {
		reg.Each(func(e *scene.Entity) {
			ch, st := glyph(e.Kind)
			if (ch == '.') != (pass == 0) {
				return
			}
			if e.Kind == scene.KindGoal && e.Position.ApproxEqualThreshold(snap.GoalPosition, 0.01) {
				st = styleActive
			}
			plot(e.Position, ch, st)
		})
	}
	plot(center, '@', stylePlayer)

	r.drawHUD(snap, w)
	r.screen.Show()
}

func (r *screenRenderer) drawHUD(snap core.Snapshot, w int) {
	sc := r.session.Scenario()
	healthStyle := styleHUD
	if snap.Health < 25 {
		healthStyle = styleCritical
	}

	x := drawText(r.screen, 0, 0, styleHUD, fmt.Sprintf("%s (%s)  ", sc.Name, sc.Disaster))
	x = drawText(r.screen, x, 0, healthStyle, fmt.Sprintf("Health %3.0f", snap.Health))
	drawText(r.screen, x, 0, styleHUD, fmt.Sprintf("  Score %d  Status %s", snap.Score, snap.Status))

	goal := "All goals reached"
	if !snap.Completed {
		goal = fmt.Sprintf("Goal %d/%d: %s", snap.GoalIndex+1, snap.GoalCount, snap.GoalDescription)
	}
	drawText(r.screen, 0, 1, styleGoal, goal)

	info := fmt.Sprintf("%s  t=%.1fs", snap.Mode, snap.Elapsed)
	if sc.Disaster.HasWater() {
		info += fmt.Sprintf("  water %.1fm", snap.WaterLevel)
	}
	if snap.WindStrength > 0 {
		info += fmt.Sprintf("  wind %.0f", snap.WindStrength)
	}
	if r.paused != nil && r.paused() {
		info += "  PAUSED"
	}
	drawText(r.screen, 0, 2, styleDim, info)

	help := "WASD move  space jump  arrows look  p pause  q quit"
	if len(help) < w {
		_, h := r.screen.Size()
		drawText(r.screen, 0, h-1, styleDim, help)
	}
}

func drawText(screen tcell.Screen, x, y int, st tcell.Style, s string) int {
	for _, ch := range s {
		screen.SetContent(x, y, ch, nil, st)
		x++
	}
	return x
}

// play runs s interactively on the terminal until the drill completes or the
// player quits. A finished drill stays on screen briefly.
func play(ctx context.Context, s *sim.Session, interval time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	kb := newKeyboard(cancel, screen.Sync)
	go kb.poll(screen)

	r := &screenRenderer{screen: screen, session: s, paused: kb.Paused}
	if err := sim.Run(ctx, s, kb, r, interval); err != nil {
		return err
	}

	r.Render(s.Snapshot())
	select {
	case <-ctx.Done():
	case <-time.After(3 * time.Second):
	}
	return nil
}
