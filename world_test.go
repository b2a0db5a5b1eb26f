package impulse2d_test

import (
	"errors"
	"math"
	"testing"

	"github.com/impulse2d/impulse2d"
)

func TestWorldRejectsInvalidConfiguration(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.FixedDeltaTime = 0.0
	if _, err := impulse2d.NewWorld(def); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("zero step size: err=%v, want ErrInvalidConfiguration", err)
	}

	def = impulse2d.MakeWorldDef()
	def.VelocityIterations = 0
	if _, err := impulse2d.NewWorld(def); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("zero iterations: err=%v, want ErrInvalidConfiguration", err)
	}

	def = impulse2d.MakeWorldDef()
	def.AABBMargin = -0.1
	if _, err := impulse2d.NewWorld(def); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("negative margin: err=%v, want ErrInvalidConfiguration", err)
	}

	def = impulse2d.MakeWorldDef()
	def.LinearSlop = -1.0
	if _, err := impulse2d.NewWorld(def); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("negative slop: err=%v, want ErrInvalidConfiguration", err)
	}
}

func TestBodyRejectsNonPositiveMass(t *testing.T) {
	shape := impulse2d.MakeCircleShape(0.5)

	def := impulse2d.MakeBodyDef()
	def.Type = impulse2d.BodyType.E_dynamicBody
	def.Density = 0.0

	if _, err := impulse2d.NewBody(&def, &shape); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("zero density dynamic body: err=%v, want ErrInvalidConfiguration", err)
	}

	if _, err := impulse2d.NewBody(&def, nil); !errors.Is(err, impulse2d.ErrInvalidConfiguration) {
		t.Fatalf("nil shape: err=%v, want ErrInvalidConfiguration", err)
	}
}

func TestMassSettersKeepInversesInSync(t *testing.T) {
	shape := impulse2d.MakeCircleShape(0.5)

	def := impulse2d.MakeBodyDef()
	def.Type = impulse2d.BodyType.E_dynamicBody

	body, err := impulse2d.NewBody(&def, &shape)
	if err != nil {
		t.Fatalf("NewBody: %v", err)
	}

	body.SetMass(4.0)
	if got := body.GetInverseMass(); math.Abs(got-0.25) > 1e-12 {
		t.Fatalf("inverse mass = %v, want 0.25", got)
	}

	body.SetInertia(8.0)
	if got := body.GetInverseInertia(); math.Abs(got-0.125) > 1e-12 {
		t.Fatalf("inverse inertia = %v, want 0.125", got)
	}

	body.SetMass(0.0)
	if got := body.GetInverseMass(); got != 0.0 {
		t.Fatalf("inverse of zero mass = %v, want 0", got)
	}
}

func TestStaticBodyHasZeroInverses(t *testing.T) {
	body := makeBoxBody(t, impulse2d.BodyType.E_staticBody, 0, 0, 1, 1)

	if body.GetInverseMass() != 0.0 || body.GetInverseInertia() != 0.0 {
		t.Fatalf("static body has non-zero inverses")
	}

	body.SetMass(10.0)
	if body.GetInverseMass() != 0.0 {
		t.Fatalf("SetMass changed a static body")
	}

	// Statics are never integrated.
	world := newTestWorld(t, impulse2d.MakeWorldDef())
	if err := world.Add(body); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for i := 0; i < 10; i++ {
		world.Step(impulse2d.DefaultFixedDeltaTime)
	}

	if body.GetPosition() != impulse2d.MakeVec2(0, 0) {
		t.Fatalf("static body moved to (%v %v)", body.GetPosition().X, body.GetPosition().Y)
	}
}

func TestGravityIntegration(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	world := newTestWorld(t, def)

	body := addCircle(t, world, 0, 100, 0.5, impulse2d.MakeBodyDef())

	world.Step(impulse2d.DefaultFixedDeltaTime)

	// After one step: v = g*h, y = 100 + h*v.
	h := def.FixedDeltaTime
	wantV := -10.0 * h
	wantY := 100.0 + h*wantV

	if got := body.GetLinearVelocity().Y; math.Abs(got-wantV) > 1e-12 {
		t.Fatalf("velocity after one step = %v, want %v", got, wantV)
	}
	if got := body.GetPosition().Y; math.Abs(got-wantY) > 1e-12 {
		t.Fatalf("position after one step = %v, want %v", got, wantY)
	}
}

func TestApplyForceAndImpulse(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()
	world := newTestWorld(t, def)

	body := addCircle(t, world, 0, 0, 0.5, impulse2d.MakeBodyDef())
	body.SetMass(2.0)

	body.ApplyForce(impulse2d.MakeVec2(120, 0))
	world.Step(impulse2d.DefaultFixedDeltaTime)

	// v = h * F/m
	want := def.FixedDeltaTime * 60.0
	if got := body.GetLinearVelocity().X; math.Abs(got-want) > 1e-12 {
		t.Fatalf("velocity after force = %v, want %v", got, want)
	}

	// Force accumulators are cleared after the step.
	vx := body.GetLinearVelocity().X
	world.Step(impulse2d.DefaultFixedDeltaTime)
	if got := body.GetLinearVelocity().X; math.Abs(got-vx) > 1e-12 {
		t.Fatalf("force leaked into the next step: %v -> %v", vx, got)
	}

	body.ApplyLinearImpulse(impulse2d.MakeVec2(-2, 0), body.GetPosition())
	if got := body.GetLinearVelocity().X; math.Abs(got-(vx-1.0)) > 1e-12 {
		t.Fatalf("velocity after impulse = %v, want %v", got, vx-1.0)
	}
}

func TestSetTransformMovesProxy(t *testing.T) {
	world := newTestWorld(t, impulse2d.MakeWorldDef())

	body := addBox(t, world, impulse2d.BodyType.E_dynamicBody, 0, 0, 1, 1)

	body.SetTransform(impulse2d.MakeVec2(50, 0), 0)

	if got := world.QueryPoint(impulse2d.MakeVec2(50, 0)); len(got) != 1 || got[0] != body {
		t.Fatalf("moved body not found at its new position")
	}
	if got := world.QueryPoint(impulse2d.MakeVec2(0, 0)); len(got) != 0 {
		t.Fatalf("moved body still found at its old position")
	}

	world.M_tree.Validate()
}

func TestStepWithoutPositionCorrectionStillSolvesVelocity(t *testing.T) {
	def := impulse2d.MakeWorldDef()
	def.Gravity.SetZero()
	def.PositionCorrection = false
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

	// Pull the bodies apart; the velocity constraint must remove the
	// separating velocity even though the position error stays.
	a.SetLinearVelocity(impulse2d.MakeVec2(-1, 0))
	b.SetLinearVelocity(impulse2d.MakeVec2(1, 0))

	world.Step(impulse2d.DefaultFixedDeltaTime)

	rel := b.GetLinearVelocity().X - a.GetLinearVelocity().X
	if math.Abs(rel) > 1e-9 {
		t.Fatalf("separating velocity survived: %v", rel)
	}

	// No position correction: the distance error is untouched by bias.
	separation := impulse2d.Vec2Distance(a.GetPosition(), b.GetPosition())
	if math.Abs(separation-10.0) > 0.1 {
		t.Fatalf("position correction ran while disabled: separation=%v", separation)
	}
}
