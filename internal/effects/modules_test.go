package effects

import (
	"math"
	"testing"

	"github.com/drillsim/drillsim/internal/player"
	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// park moves every entity of a span out of reach of a player at the origin
func park(h *harness, s scene.Span) {
	for i := range h.reg.View(s) {
		h.reg.View(s)[i].Position = mgl64.Vec3{40, 20, 40}
	}
}

func TestEarthquake_DebrisHitsThreeTimes(t *testing.T) {
	h := newHarness(t, core.Earthquake)
	eq := h.mod.(*Earthquake)
	park(h, eq.debris)

	target := &h.reg.View(eq.debris)[0]
	f := target.Data.(*scene.Falling)
	f.DamagePerSecond = 1

	for i := 0; i < 3; i++ {
		target.Position = mgl64.Vec3{0, 1.99 + f.Speed*frame, 0}
		h.step(frame)
		assert.Greater(t, target.Position.Y(), 2.0, "debris is recycled after a hit")
	}
	assert.InDelta(t, 97, h.state.Health, 1e-9)
}

func TestEarthquake_DebrisRecyclesOnGround(t *testing.T) {
	h := newHarness(t, core.Earthquake)
	eq := h.mod.(*Earthquake)
	park(h, eq.debris)

	e := &h.reg.View(eq.debris)[3]
	e.Position = mgl64.Vec3{30, 0.01, 30}
	h.step(frame)
	assert.GreaterOrEqual(t, e.Position.Y(), debrisMinHeight)
	assert.Equal(t, player.MaxHealth, h.state.Health)
}

func TestEarthquake_ShakeIsBoundedAndChanges(t *testing.T) {
	h := newHarness(t, core.Earthquake)
	eq := h.mod.(*Earthquake)

	seen := map[float64]bool{}
	for i := 0; i < 20; i++ {
		h.step(frame)
		x, y := eq.ShakeOffset()
		assert.LessOrEqual(t, math.Abs(x), ShakeAmplitude)
		assert.LessOrEqual(t, math.Abs(y), ShakeAmplitude)
		seen[x] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestWater_RisesToCeiling(t *testing.T) {
	for d, ceiling := range map[core.DisasterType]float64{core.Flood: 3, core.Tsunami: 8} {
		t.Run(string(d), func(t *testing.T) {
			h := newHarness(t, d)
			w := h.mod.(*Water)
			assert.Equal(t, ceiling, w.Ceiling())

			prev := w.WaterLevel()
			for i := 0; i < 60*120; i++ {
				h.step(frame)
				require.GreaterOrEqual(t, w.WaterLevel(), prev)
				require.LessOrEqual(t, w.WaterLevel(), ceiling)
				prev = w.WaterLevel()
			}
			assert.Equal(t, ceiling, w.WaterLevel())
		})
	}
}

func TestWater_FloodRate(t *testing.T) {
	h := newHarness(t, core.Flood)
	w := h.mod.(*Water)
	for i := 0; i < 600; i++ {
		h.step(frame)
	}
	assert.InDelta(t, 0.8, w.WaterLevel(), 1e-9)

	// negative frames never lower the water
	h.mod.Update(FrameContext{Dt: -1})
	assert.InDelta(t, 0.8, w.WaterLevel(), 1e-9)
}

func TestWater_SurfaceAndFloaters(t *testing.T) {
	h := newHarness(t, core.Tsunami)
	w := h.mod.(*Water)
	for i := 0; i < 600; i++ {
		h.step(frame)
	}

	require.Len(t, w.Surface(), SurfaceGrid*SurfaceGrid)
	amp := waterParams[core.Tsunami].WaveAmp
	for _, y := range w.Surface() {
		assert.InDelta(t, w.WaterLevel(), y, amp*1.5+1e-9)
	}
	for _, e := range h.reg.View(w.floaters) {
		f := e.Data.(*scene.Floater)
		assert.InDelta(t, w.WaterLevel(), e.Position.Y(), f.Bob+1e-9)
	}
	for _, e := range h.reg.View(w.ladders) {
		assert.Equal(t, w.Ceiling()+1, e.Data.(*scene.Ladder).Height)
	}
	assert.Zero(t, h.reg.Count(scene.KindRainDrop))
	assert.Positive(t, h.reg.Count(scene.KindWaveParticle))
}

func TestFire_BurnsNearbyPlayer(t *testing.T) {
	h := newHarness(t, core.Fire)
	fire := h.mod.(*Fire)
	srcs := h.reg.View(fire.sources)

	srcs[0].Position = mgl64.Vec3{}
	for i := 1; i < len(srcs); i++ {
		srcs[i].Position = mgl64.Vec3{45, 0, 45}
	}
	h.state.Position = mgl64.Vec3{FireRadius - 0.01, 0, 0}
	h.step(frame)

	dmg := srcs[0].Data.(*scene.FireSource).Damage
	assert.InDelta(t, player.MaxHealth-dmg*0.1, h.state.Health, 1e-9)
	assert.Equal(t, core.StatusBurning, h.state.Status)
}

func TestFire_FlamesFlickerOutOfSync(t *testing.T) {
	h := newHarness(t, core.Fire)
	h.step(0.37)

	src := h.reg.View(h.mod.(*Fire).sources)[0].Data.(*scene.FireSource)
	scales := map[float64]bool{}
	for _, fl := range src.Flames {
		assert.InDelta(t, 1, fl.ScaleY, 0.3+1e-9)
		scales[fl.ScaleY] = true
	}
	assert.Greater(t, len(scales), 1)
}

func TestCyclone_WindAndDrift(t *testing.T) {
	h := newHarness(t, core.Cyclone)
	c := h.mod.(*Cyclone)
	dir, strength := c.Wind()
	assert.Equal(t, WindStrength, strength)
	assert.InDelta(t, 1, dir.Len(), 1e-9)
	assert.Zero(t, dir.Y())

	h.state.Position = mgl64.Vec3{-1000, 0, -1000} // out of reach of every flyer
	for i := 0; i < 30; i++ {
		h.step(frame)
	}
	for _, e := range h.reg.View(c.flyers) {
		drift := e.Data.(*scene.Flyer).Drift
		assert.InDelta(t, 1, drift.Normalize().Dot(dir), 1e-9)
	}
	maxSway := WindStrength * treeSwayGain / 0.5
	for _, e := range h.reg.View(c.trees) {
		assert.LessOrEqual(t, math.Abs(e.Rotation.X()), maxSway)
		assert.LessOrEqual(t, math.Abs(e.Rotation.Z()), maxSway)
	}
}

func TestRolling_TranslateAlongX(t *testing.T) {
	h := newHarness(t, core.Landslide)
	r := h.mod.(*Rolling)
	h.state.Position = mgl64.Vec3{-1000, 0, -1000}

	e := &h.reg.View(r.rollers)[0]
	e.Position = mgl64.Vec3{0, 0.5, 10}
	h.step(0.1)
	speed := e.Data.(*scene.Roller).Speed
	assert.InDelta(t, speed*0.1, e.Position.X(), 1e-9)
	assert.Equal(t, 10.0, e.Position.Z())

	e.Position[0] = DefaultConfig().WorldHalfExtent - 0.01
	h.step(0.1)
	assert.Equal(t, -DefaultConfig().WorldHalfExtent, e.Position.X())
}

func TestRolling_AvalancheFreezes(t *testing.T) {
	h := newHarness(t, core.Avalanche)
	r := h.mod.(*Rolling)
	park(h, r.rollers)
	assert.Equal(t, RollerCount, h.reg.Count(scene.KindSnowball))

	e := &h.reg.View(r.rollers)[0]
	rl := e.Data.(*scene.Roller)
	rl.Size, rl.Damage = 1, 5
	e.Position = mgl64.Vec3{-rl.Speed * frame, 0.5, 0}
	h.step(frame)

	assert.InDelta(t, player.MaxHealth-0.5, h.state.Health, 1e-9)
	assert.Equal(t, core.StatusFreezing, h.state.Status)
	assert.Equal(t, -DefaultConfig().WorldHalfExtent, e.Position.X())
}

func TestStampede_TimerAndBounce(t *testing.T) {
	h := newHarness(t, core.Stampede)
	s := h.mod.(*Stampede)
	h.state.Position = mgl64.Vec3{-1000, 0, -1000}

	e := &h.reg.View(s.crowd)[0]
	w := e.Data.(*scene.Walker)

	w.Timer = 0.001
	h.step(frame)
	assert.GreaterOrEqual(t, w.Timer, minWalkTimer)
	assert.LessOrEqual(t, w.Timer, maxWalkTimer)

	half := DefaultConfig().WorldHalfExtent
	w.Timer = 10
	w.Dir = mgl64.Vec3{1, 0, 0}
	e.Position = mgl64.Vec3{half - 0.01, 0, 0}
	h.step(frame)
	assert.Equal(t, -1.0, w.Dir.X())
	assert.Equal(t, half, e.Position.X())
}

func TestStampede_PushesPlayerAway(t *testing.T) {
	h := newHarness(t, core.Stampede)
	s := h.mod.(*Stampede)
	for i := range h.reg.View(s.crowd) {
		e := &h.reg.View(s.crowd)[i]
		e.Position = mgl64.Vec3{40, 0, 40}
		e.Data.(*scene.Walker).Speed = 0
	}
	e := &h.reg.View(s.crowd)[0]
	e.Position = mgl64.Vec3{1, 0, 0}

	h.step(frame)
	assert.InDelta(t, -CrowdPush*frame, h.state.Position.X(), 1e-9)
	assert.InDelta(t, player.MaxHealth-crowdDamage*0.1, h.state.Health, 1e-9)
}

func TestHeatwave_SustainedSprintingHurts(t *testing.T) {
	h := newHarness(t, core.Heatwave)
	h.step(frame)
	assert.Equal(t, player.MaxHealth, h.state.Health)

	fast := mgl64.Vec3{DefaultConfig().MoveSpeed, 0, 0}
	burst := int(ExertionDelay/frame) - 10

	// short bursts separated by a pause never add up
	for round := 0; round < 3; round++ {
		h.state.Velocity = fast
		for i := 0; i < burst; i++ {
			h.step(frame)
		}
		h.state.Velocity = mgl64.Vec3{}
		h.step(frame)
	}
	assert.Equal(t, player.MaxHealth, h.state.Health)

	h.state.Velocity = fast
	for i := 0; i < int(ExertionDelay/frame)+11; i++ {
		h.step(frame)
	}
	assert.Less(t, h.state.Health, player.MaxHealth)
	assert.Greater(t, h.state.Health, player.MaxHealth-2*ExertionDamage)
}

func TestColdwave_StandingStillFreezes(t *testing.T) {
	h := newHarness(t, core.Coldwave)
	h.state.Velocity = mgl64.Vec3{3, 0, 0}
	h.step(frame)
	assert.Equal(t, player.MaxHealth, h.state.Health)
	assert.Equal(t, core.StatusNone, h.state.Status)

	h.state.Velocity = mgl64.Vec3{}
	h.step(frame)
	assert.InDelta(t, player.MaxHealth-ExposureDamage*0.1, h.state.Health, 1e-9)
	assert.Equal(t, core.StatusFreezing, h.state.Status)
}
