package impulse2d_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/impulse2d/impulse2d"
)

func addCircle(t *testing.T, world *impulse2d.World, x, y, radius float64, def impulse2d.BodyDef) *impulse2d.Body {
	t.Helper()

	shape := impulse2d.MakeCircleShape(radius)
	def.Type = impulse2d.BodyType.E_dynamicBody
	def.Position.Set(x, y)

	body, err := world.CreateBody(&def, &shape)
	if err != nil {
		t.Fatalf("CreateBody: %v", err)
	}

	return body
}

// Head-on collision of two equal bodies with restitution 1 reverses
// their normal relative velocity.
func TestRestitutionReversesRelativeVelocity(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()
	def.RestitutionSlop = 0.0
	def.PositionCorrection = false

	world := newTestWorld(t, def)

	bd := impulse2d.MakeBodyDef()
	bd.Restitution = 1.0
	bd.Friction = 0.0

	a := addCircle(t, world, -0.499, 0, 0.5, bd)
	b := addCircle(t, world, 0.499, 0, 0.5, bd)

	a.SetLinearVelocity(impulse2d.MakeVec2(1, 0))
	b.SetLinearVelocity(impulse2d.MakeVec2(-1, 0))

	world.Step(impulse2d.DefaultFixedDeltaTime)

	relBefore := -2.0
	relAfter := b.GetLinearVelocity().X - a.GetLinearVelocity().X

	if math.Abs(relAfter+relBefore) > 1e-9 {
		t.Fatalf("relative normal velocity after bounce = %v, want %v", relAfter, -relBefore)
	}

	if math.Abs(a.GetLinearVelocity().X+1.0) > 1e-9 {
		t.Fatalf("body A velocity = %v, want -1", a.GetLinearVelocity().X)
	}
	if math.Abs(b.GetLinearVelocity().X-1.0) > 1e-9 {
		t.Fatalf("body B velocity = %v, want 1", b.GetLinearVelocity().X)
	}
}

// With no external forces and no static bodies the solver only exchanges
// impulses between body pairs, so linear momentum is conserved.
func TestMomentumConservation(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	rng := rand.New(rand.NewSource(42))

	bd := impulse2d.MakeBodyDef()
	bd.Restitution = 0.5
	bd.Friction = 0.3

	var bodies []*impulse2d.Body
	for i := 0; i < 8; i++ {
		x := rng.Float64()*4.0 - 2.0
		y := rng.Float64()*4.0 - 2.0
		body := addCircle(t, world, x, y, 0.6, bd)
		body.SetLinearVelocity(impulse2d.MakeVec2(rng.Float64()*6.0-3.0, rng.Float64()*6.0-3.0))
		bodies = append(bodies, body)
	}

	momentum := func() impulse2d.Vec2 {
		sum := impulse2d.MakeVec2(0, 0)
		for _, body := range bodies {
			sum.OperatorPlusInplace(impulse2d.Vec2MulScalar(body.GetMass(), body.GetLinearVelocity()))
		}
		return sum
	}

	before := momentum()

	for i := 0; i < 30; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	after := momentum()

	if impulse2d.Vec2Distance(before, after) > 1e-8 {
		t.Fatalf("momentum drifted: before=(%v %v) after=(%v %v)",
			before.X, before.Y, after.X, after.Y)
	}
}

// A box sliding on static ground decelerates under friction and never
// reverses direction. The box is wider than it is tall, so the friction
// torque cannot tip it onto a corner (a square box with friction 1 tips
// and rocks back).
func TestFrictionDecelerates(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	world := newTestWorld(t, def)

	ground := addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 20, 0.5)
	ground.SetFriction(1.0)

	box := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 0, 0.7, 0.5, 0.25)
	box.SetFriction(1.0)
	box.SetLinearVelocity(impulse2d.MakeVec2(5, 0))

	for i := 0; i < 90; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)

		if box.GetLinearVelocity().X < -0.01 {
			t.Fatalf("friction reversed the motion at step %d: vx=%v", i, box.GetLinearVelocity().X)
		}
	}

	if vx := box.GetLinearVelocity().X; vx >= 5.0 {
		t.Fatalf("friction did not decelerate the box: vx=%v", vx)
	}
}

// A box dropped slightly into static ground settles and rests on it.
func TestBoxRestsOnGround(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	world := newTestWorld(t, def)

	addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 20, 0.5)
	box := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 0, 0.95, 0.5, 0.5)

	for i := 0; i < 120; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	// Resting height is ground top plus half extent, minus at most the
	// penetration the slop allows.
	if y := box.GetPosition().Y; math.Abs(y-1.0) > 0.1 {
		t.Fatalf("box did not settle on the ground: y=%v", y)
	}

	if vy := math.Abs(box.GetLinearVelocity().Y); vy > 0.1 {
		t.Fatalf("box still moving after settling: vy=%v", vy)
	}
}

// Disabling warm starting must not break settling, only slow it.
func TestRestingWithoutWarmStarting(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.WarmStarting = false
	world := newTestWorld(t, def)

	addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 20, 0.5)
	box := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 0, 0.95, 0.5, 0.5)

	for i := 0; i < 180; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	if y := box.GetPosition().Y; math.Abs(y-1.0) > 0.15 {
		t.Fatalf("box did not settle without warm starting: y=%v", y)
	}
}
