package impulse2d_test

import (
	"errors"
	"math"
	"testing"

	"github.com/impulse2d/impulse2d"
)

// Two unit-mass bodies pulled to a rest length by a rigid distance joint.
func TestDistanceJointSettles(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	bd := impulse2d.MakeBodyDef()
	a := addCircle(t, world, 0, 0, 0.5, bd)
	b := addCircle(t, world, 10, 0, 0.5, bd)
	a.SetMass(1)
	b.SetMass(1)

	jd := impulse2d.MakeDistanceJointDef()
	jd.BodyA = a
	jd.BodyB = b
	jd.Length = 5.0

	joint, err := impulse2d.NewDistanceJoint(&jd)
	if err != nil {
		t.Fatalf("NewDistanceJoint: %v", err)
	}
	if err := world.AddJoint(joint); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	for i := 0; i < 60; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	separation := impulse2d.Vec2Distance(a.GetPosition(), b.GetPosition())
	if math.Abs(separation-5.0) > 1e-3 {
		t.Fatalf("separation = %v, want 5 +- 1e-3", separation)
	}
}

// A grab joint pulls a unit-mass body onto its target and the critically
// damped spring leaves it nearly at rest there.
func TestGrabJointPullsToTarget(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	bd := impulse2d.MakeBodyDef()
	body := addCircle(t, world, 0, 0, 0.5, bd)
	body.SetMass(1)

	jd := impulse2d.MakeGrabJointDef()
	jd.BodyB = body
	jd.Target = impulse2d.MakeVec2(5, 0)
	jd.FrequencyHz = 2.0
	jd.DampingRatio = 1.0

	joint, err := impulse2d.NewGrabJoint(&jd)
	if err != nil {
		t.Fatalf("NewGrabJoint: %v", err)
	}
	if err := world.AddJoint(joint); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	for i := 0; i < 60; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	if d := impulse2d.Vec2Distance(body.GetPosition(), impulse2d.MakeVec2(5, 0)); d > 0.1 {
		t.Fatalf("body ended %v away from the target, want < 0.1", d)
	}

	if speed := body.GetLinearVelocity().Length(); speed > 0.1 {
		t.Fatalf("body speed = %v, want < 0.1", speed)
	}
}

// Matched (frequency, damping) must give distance and grab joints the
// same order of steady-state error; the softness reduction is shared.
func TestSoftJointParity(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	const frequency = 2.0
	const damping = 1.0

	// Distance joint from a static anchor body.
	distanceErr := func() float64 {
		world := newTestWorld(t, def)

		anchor := addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 0.1, 0.1)
		bd := impulse2d.MakeBodyDef()
		body := addCircle(t, world, 8, 0, 0.5, bd)
		body.SetMass(1)

		jd := impulse2d.MakeDistanceJointDef()
		jd.BodyA = anchor
		jd.BodyB = body
		jd.Length = 5.0
		jd.FrequencyHz = frequency
		jd.DampingRatio = damping

		joint, err := impulse2d.NewDistanceJoint(&jd)
		if err != nil {
			t.Fatalf("NewDistanceJoint: %v", err)
		}
		if err := world.AddJoint(joint); err != nil {
			t.Fatalf("AddJoint: %v", err)
		}

		for i := 0; i < 120; i++ {
			world.Step(impulse2d.DefaultFixedDeltaTime)
		}

		return math.Abs(impulse2d.Vec2Distance(anchor.GetPosition(), body.GetPosition()) - 5.0)
	}()

	grabErr := func() float64 {
		world := newTestWorld(t, def)

		bd := impulse2d.MakeBodyDef()
		body := addCircle(t, world, 8, 0, 0.5, bd)
		body.SetMass(1)

		jd := impulse2d.MakeGrabJointDef()
		jd.BodyB = body
		jd.Target = impulse2d.MakeVec2(5, 0)
		jd.FrequencyHz = frequency
		jd.DampingRatio = damping

		joint, err := impulse2d.NewGrabJoint(&jd)
		if err != nil {
			t.Fatalf("NewGrabJoint: %v", err)
		}
		if err := world.AddJoint(joint); err != nil {
			t.Fatalf("AddJoint: %v", err)
		}

		for i := 0; i < 120; i++ {
			world.Step(impulse2d.DefaultFixedDeltaTime)
		}

		return impulse2d.Vec2Distance(body.GetPosition(), impulse2d.MakeVec2(5, 0))
	}()

	if distanceErr > 1e-2 {
		t.Fatalf("distance joint steady-state error = %v", distanceErr)
	}
	if grabErr > 1e-2 {
		t.Fatalf("grab joint steady-state error = %v", grabErr)
	}
}

// A weld joint keeps both the anchor points coincident and the relative
// angle fixed while the pair moves.
func TestWeldJointHolds(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	a := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 0, 0, 0.5, 0.5)
	b := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 2, 0, 0.5, 0.5)

	jd := impulse2d.MakeWeldJointDef()
	jd.BodyA = a
	jd.BodyB = b
	jd.Anchor = impulse2d.MakeVec2(1, 0)

	joint, err := impulse2d.NewWeldJoint(&jd)
	if err != nil {
		t.Fatalf("NewWeldJoint: %v", err)
	}
	if err := world.AddJoint(joint); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	a.SetLinearVelocity(impulse2d.MakeVec2(0, 2))

	for i := 0; i < 60; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	if gap := impulse2d.Vec2Distance(joint.GetAnchorA(), joint.GetAnchorB()); gap > 0.05 {
		t.Fatalf("weld anchors drifted apart by %v", gap)
	}

	if da := math.Abs(b.GetAngle() - a.GetAngle()); da > 0.05 {
		t.Fatalf("weld relative angle drifted to %v", da)
	}
}

// A line joint keeps body B on the axis through body A's anchor; motion
// perpendicular to the axis is removed, motion along it stays free.
func TestLineJointConstrainsPerpendicularMotion(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	a := addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 0.5, 0.5)
	b := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 2, 0, 0.5, 0.5)

	jd := impulse2d.MakeLineJointDef()
	jd.BodyA = a
	jd.BodyB = b
	jd.AnchorA = impulse2d.MakeVec2(0, 0)
	jd.AnchorB = impulse2d.MakeVec2(2, 0)

	joint, err := impulse2d.NewLineJoint(&jd)
	if err != nil {
		t.Fatalf("NewLineJoint: %v", err)
	}
	if err := world.AddJoint(joint); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	b.SetLinearVelocity(impulse2d.MakeVec2(1, 3))

	for i := 0; i < 60; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	if y := math.Abs(b.GetPosition().Y); y > 0.01 {
		t.Fatalf("line joint let the body leave the axis: y=%v", y)
	}

	if x := b.GetPosition().X; x <= 2.0 {
		t.Fatalf("line joint blocked motion along the axis: x=%v", x)
	}
}

// A prismatic joint is the line joint plus a lock on relative rotation.
func TestPrismaticJointLocksRotation(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	a := addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 0.5, 0.5)
	b := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 2, 0, 0.5, 0.5)

	jd := impulse2d.MakePrismaticJointDef()
	jd.BodyA = a
	jd.BodyB = b
	jd.AnchorA = impulse2d.MakeVec2(0, 0)
	jd.AnchorB = impulse2d.MakeVec2(2, 0)

	joint, err := impulse2d.NewPrismaticJoint(&jd)
	if err != nil {
		t.Fatalf("NewPrismaticJoint: %v", err)
	}
	if err := world.AddJoint(joint); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	b.SetAngularVelocity(5)
	b.SetLinearVelocity(impulse2d.MakeVec2(0, 3))

	for i := 0; i < 60; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	if angle := math.Abs(b.GetAngle()); angle > 0.01 {
		t.Fatalf("prismatic joint let the body rotate: angle=%v", angle)
	}

	if y := math.Abs(b.GetPosition().Y); y > 0.01 {
		t.Fatalf("prismatic joint let the body leave the axis: y=%v", y)
	}
}

func TestJointRejectsTwoStaticBodies(t *testing.T) {
	world := newTestWorld(t, impulse2d.MakeWorldDef())

	a := addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 1, 1)
	b := addBox(t, world, impulse2d.BodyType.E_staticBody, 5, 0, 1, 1)

	jd := impulse2d.MakeDistanceJointDef()
	jd.BodyA = a
	jd.BodyB = b

	if _, err := impulse2d.NewDistanceJoint(&jd); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("joint between two static bodies: err=%v, want ErrInvalidConfiguration", err)
	}

	pd := impulse2d.MakePrismaticJointDef()
	pd.BodyA = a
	pd.BodyB = b

	if _, err := impulse2d.NewPrismaticJoint(&pd); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("prismatic joint between two static bodies: err=%v, want ErrInvalidConfiguration", err)
	}
}

func TestGrabJointRequiresDynamicBody(t *testing.T) {
	world := newTestWorld(t, impulse2d.MakeWorldDef())

	body := addBox(t, world, impulse2d.BodyType.E_staticBody, 0, 0, 1, 1)

	jd := impulse2d.MakeGrabJointDef()
	jd.BodyB = body
	jd.Target = impulse2d.MakeVec2(5, 0)

	if _, err := impulse2d.NewGrabJoint(&jd); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("grab joint on static body: err=%v, want ErrInvalidConfiguration", err)
	}
}

func TestAddJointRejectsForeignBody(t *testing.T) {
	world := newTestWorld(t, impulse2d.MakeWorldDef())

	owned := addCircle(t, world, 0, 0, 0.5, impulse2d.MakeBodyDef())

	// A body that was never added to the world.
	stray := makeBoxBody(t, impulse2d.BodyType.E_dynamicBody, 5, 0, 0.5, 0.5)

	jd := impulse2d.MakeDistanceJointDef()
	jd.BodyA = owned
	jd.BodyB = stray
	jd.Length = 5.0

	joint, err := impulse2d.NewDistanceJoint(&jd)
	if err != nil {
		t.Fatalf("NewDistanceJoint: %v", err)
	}

	if err := world.AddJoint(joint); !errors.Is(err, impulse2d.ErrDanglingReference) {
		t.Fatalf("AddJoint with foreign body: err=%v, want ErrDanglingReference", err)
	}
}

func TestRemovingBodyRemovesItsJoints(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()

	world := newTestWorld(t, def)

	a := addCircle(t, world, 0, 0, 0.5, impulse2d.MakeBodyDef())
	b := addCircle(t, world, 10, 0, 0.5, impulse2d.MakeBodyDef())

	jd := impulse2d.MakeDistanceJointDef()
	jd.BodyA = a
	jd.BodyB = b
	jd.Length = 5.0

	joint, err := impulse2d.NewDistanceJoint(&jd)
	if err != nil {
		t.Fatalf("NewDistanceJoint: %v", err)
	}
	if err := world.AddJoint(joint); err != nil {
		t.Fatalf("AddJoint: %v", err)
	}

	world.Remove(a)

	if world.GetJointCount() != 0 {
		t.Fatalf("joint survived the removal of its body")
	}

	// Stepping after the removal must be safe.
	world.Step(impulse2d.DefaultFixedDeltaTime)

	if got := world.QueryPoint(impulse2d.MakeVec2(0, 0)); len(got) != 0 {
		t.Fatalf("removed body still answers queries")
	}
}
