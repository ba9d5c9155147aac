package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_SpawnAndGet(t *testing.T) {
	r := NewRegistry(4)
	id := r.Spawn(KindDebris, mgl64.Vec3{1, 2, 3}, &Falling{Speed: 4})

	e := r.Get(id)
	require.NotNil(t, e)
	assert.Equal(t, KindDebris, e.Kind)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, e.Position)
	assert.Equal(t, 1.0, e.Opacity)
	assert.Equal(t, 1, r.Alive())

	assert.Nil(t, r.Get(-1))
	assert.Nil(t, r.Get(99))
}

func TestRegistry_SpawnNIsContiguous(t *testing.T) {
	r := NewRegistry(0)
	r.Spawn(KindTree, mgl64.Vec3{}, &Sway{})
	span := r.SpawnN(KindRainDrop, 5, func(i int) (mgl64.Vec3, Payload) {
		return mgl64.Vec3{float64(i), 10, 0}, &Drop{FallSpeed: 20}
	})

	assert.Equal(t, Span{Start: 1, End: 6}, span)
	assert.Equal(t, 5, span.Len())
	view := r.View(span)
	require.Len(t, view, 5)
	for i, e := range view {
		assert.Equal(t, KindRainDrop, e.Kind)
		assert.Equal(t, float64(i), e.Position.X())
	}
}

func TestRegistry_RemoveOnlyConsumables(t *testing.T) {
	r := NewRegistry(0)
	debris := r.Spawn(KindDebris, mgl64.Vec3{}, &Falling{})
	item := r.Spawn(KindCollectible, mgl64.Vec3{}, &Item{ItemID: "kit"})
	goal := r.Spawn(KindGoal, mgl64.Vec3{}, &GoalMarker{})

	assert.False(t, r.Remove(debris))
	assert.True(t, r.Remove(item))
	assert.False(t, r.Remove(item), "second removal is a no-op")
	assert.True(t, r.Remove(goal))

	assert.Equal(t, 1, r.Alive())
	assert.Equal(t, 3, r.Len(), "slots are never reused")
	assert.Nil(t, r.Get(item))
}

func TestRegistry_ViewClipsBounds(t *testing.T) {
	r := NewRegistry(0)
	r.Spawn(KindDust, mgl64.Vec3{}, &Particle{})

	assert.Len(t, r.View(Span{Start: -3, End: 10}), 1)
	assert.Nil(t, r.View(Span{Start: 4, End: 2}))
	assert.Nil(t, NewRegistry(0).View(Span{Start: 0, End: 5}))
}

func TestRegistry_EmptyIsNoop(t *testing.T) {
	r := NewRegistry(0)
	calls := 0
	r.Each(func(*Entity) { calls++ })
	assert.Zero(t, calls)
	assert.Nil(t, r.Nearest(KindLadder, mgl64.Vec3{}, 100))
	assert.Zero(t, r.Count(KindGoal))
}

func TestRegistry_Nearest(t *testing.T) {
	r := NewRegistry(0)
	r.Spawn(KindLadder, mgl64.Vec3{5, 0, 0}, &Ladder{Height: 4})
	near := r.Spawn(KindLadder, mgl64.Vec3{1, 0, 0}, &Ladder{Height: 4})
	r.Spawn(KindTree, mgl64.Vec3{0.5, 0, 0}, &Sway{})

	e := r.Nearest(KindLadder, mgl64.Vec3{}, 2)
	require.NotNil(t, e)
	assert.Equal(t, near, e.ID)
	assert.Nil(t, r.Nearest(KindLadder, mgl64.Vec3{}, 0.5))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "fire_source", KindFireSource.String())
	assert.Equal(t, "unknown", Kind(200).String())
	assert.True(t, KindObstacle.Valid())
	assert.False(t, kindCount.Valid())
}
