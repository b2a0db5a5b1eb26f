package impulse2d

import (
	"errors"
	"fmt"
)

/// A configuration, body parameter, or joint topology the solver cannot
/// accept.
var ErrInvalidConfiguration = errors.New("invalid configuration")

/// A joint refers to a body that is not owned by the world.
var ErrDanglingReference = errors.New("dangling reference")

/// World-global configuration. You can safely re-use world definitions.
type WorldDef struct {
	/// The gravity acceleration applied to every dynamic body.
	Gravity Vec2

	/// The solver time step in seconds. Must be positive.
	FixedDeltaTime float64

	/// Gauss-Seidel velocity iterations per step. Must be at least 1.
	VelocityIterations int

	/// When false, position error produces no velocity bias.
	PositionCorrection bool

	/// When false, accumulated impulses are neither applied in prepare
	/// nor carried across ticks.
	WarmStarting bool

	/// Enlargement of dynamic tree leaves, in world units.
	AABBMargin float64

	/// Relative normal velocities below this produce no restitution.
	RestitutionSlop float64

	/// Penetrations below this produce no position-correction bias.
	LinearSlop float64
}

/// This constructor sets the world definition default values.
func MakeWorldDef() WorldDef {
	return WorldDef{
		Gravity:            MakeVec2(0.0, -10.0),
		FixedDeltaTime:     DefaultFixedDeltaTime,
		VelocityIterations: DefaultVelocityIterations,
		PositionCorrection: true,
		WarmStarting:       true,
		AABBMargin:         DefaultAABBMargin,
		RestitutionSlop:    DefaultRestitutionSlop,
		LinearSlop:         DefaultLinearSlop,
	}
}

type contactKey struct {
	idA     int
	idB     int
	pointID uint32
}

type contactImpulse struct {
	normal  float64
	tangent float64
}

/// The world owns all bodies and joints, runs the broad phase, the
/// narrow phase and the constraint solver, and advances the simulation
/// in fixed time steps.
type World struct {
	M_def WorldDef

	M_tree AABBTree

	M_bodies []*Body
	M_joints []JointInterface

	// Contacts of the current tick, rebuilt by every step.
	M_contacts []*ContactConstraint

	// Accumulated impulses of the previous tick, keyed by contact
	// identity for warm starting.
	M_impulseStore map[contactKey]contactImpulse

	// Pluggable narrow phase.
	M_collide CollideFunc

	M_bodyIDSeq   int
	M_accumulator float64
	M_locked      bool
}

func NewWorld(def WorldDef) (*World, error) {
	if !(def.FixedDeltaTime > 0.0) {
		return nil, fmt.Errorf("%w: fixed delta time must be positive", ErrInvalidConfiguration)
	}
	if def.VelocityIterations < 1 {
		return nil, fmt.Errorf("%w: velocity iterations must be at least 1", ErrInvalidConfiguration)
	}
	if def.AABBMargin < 0.0 {
		return nil, fmt.Errorf("%w: aabb margin must not be negative", ErrInvalidConfiguration)
	}
	if def.RestitutionSlop < 0.0 || def.LinearSlop < 0.0 {
		return nil, fmt.Errorf("%w: slop thresholds must not be negative", ErrInvalidConfiguration)
	}
	if !def.Gravity.IsValid() {
		return nil, fmt.Errorf("%w: gravity is not finite", ErrInvalidConfiguration)
	}

	world := &World{}
	world.M_def = def
	world.M_tree = MakeAABBTree()
	world.M_impulseStore = make(map[contactKey]contactImpulse)
	world.M_collide = Collide
	world.M_bodyIDSeq = 1

	return world, nil
}

func (world *World) IsLocked() bool {
	return world.M_locked
}

func (world *World) GetBodyCount() int {
	return len(world.M_bodies)
}

func (world *World) GetJointCount() int {
	return len(world.M_joints)
}

func (world *World) GetBodies() []*Body {
	return world.M_bodies
}

/// Replace the narrow phase. Passing nil restores the default.
func (world *World) SetCollideFunc(collide CollideFunc) {
	if collide == nil {
		collide = Collide
	}
	world.M_collide = collide
}

/// Add a body to the world. The world takes ownership, assigns the
/// body's id and creates its broad-phase proxy.
func (world *World) Add(body *Body) error {
	Assert(!world.M_locked)

	if body == nil {
		return fmt.Errorf("%w: body is nil", ErrInvalidConfiguration)
	}
	if body.M_world != nil {
		return fmt.Errorf("%w: body already belongs to a world", ErrInvalidConfiguration)
	}

	body.M_id = world.M_bodyIDSeq
	world.M_bodyIDSeq++
	body.M_world = world

	world.M_bodies = append(world.M_bodies, body)
	world.M_tree.CreateProxy(body, world.M_def.AABBMargin)

	return nil
}

/// Create a body from a definition and a shape and add it to the world.
func (world *World) CreateBody(def *BodyDef, shape Shape) (*Body, error) {
	body, err := NewBody(def, shape)
	if err != nil {
		return nil, err
	}

	if err := world.Add(body); err != nil {
		return nil, err
	}

	return body, nil
}

/// Remove a body from the world. Its tree leaf is destroyed, joints that
/// reference it are removed and its cached contact impulses are dropped.
func (world *World) Remove(body *Body) {
	Assert(!world.M_locked)

	if body == nil || body.M_world != world {
		return
	}

	// Invalidate joints referencing the body before the reference dies.
	joints := world.M_joints[:0]
	for _, joint := range world.M_joints {
		if joint.GetBodyA() == body || joint.GetBodyB() == body {
			continue
		}
		joints = append(joints, joint)
	}
	world.M_joints = joints

	for key := range world.M_impulseStore {
		if key.idA == body.M_id || key.idB == body.M_id {
			delete(world.M_impulseStore, key)
		}
	}

	world.M_tree.DestroyProxy(body)

	for i, b := range world.M_bodies {
		if b == body {
			world.M_bodies = append(world.M_bodies[:i], world.M_bodies[i+1:]...)
			break
		}
	}

	body.M_world = nil
}

/// Add a joint to the world. Every body the joint references must be
/// owned by this world. Joints keep their insertion order; the solver
/// prepares and solves them in that order.
func (world *World) AddJoint(joint JointInterface) error {
	Assert(!world.M_locked)

	if joint == nil {
		return fmt.Errorf("%w: joint is nil", ErrInvalidConfiguration)
	}

	if bodyA := joint.GetBodyA(); bodyA != nil && bodyA.M_world != world {
		return fmt.Errorf("%w: joint body A is not owned by this world", ErrDanglingReference)
	}
	if bodyB := joint.GetBodyB(); bodyB != nil && bodyB.M_world != world {
		return fmt.Errorf("%w: joint body B is not owned by this world", ErrDanglingReference)
	}

	world.M_joints = append(world.M_joints, joint)

	return nil
}

func (world *World) RemoveJoint(joint JointInterface) {
	Assert(!world.M_locked)

	for i, j := range world.M_joints {
		if j == joint {
			world.M_joints = append(world.M_joints[:i], world.M_joints[i+1:]...)
			return
		}
	}
}

/// Advance the simulation. The elapsed time is accumulated and consumed
/// in fixed sub-steps of the configured solver time step; a remainder
/// shorter than one sub-step is carried into the next call.
func (world *World) Step(dt float64) {
	Assert(IsValidFloat(dt) && dt >= 0.0)

	world.M_accumulator += dt
	for world.M_accumulator >= world.M_def.FixedDeltaTime {
		world.subStep()
		world.M_accumulator -= world.M_def.FixedDeltaTime
	}
}

// One fixed tick. The order is fixed: integrate forces, refresh the tree
// for moved bodies, broad phase, narrow phase, prepare joints then
// contacts, run the velocity iterations in the same order, integrate
// poses.
func (world *World) subStep() {
	Assert(!world.M_locked)
	world.M_locked = true

	def := &world.M_def
	h := def.FixedDeltaTime

	// Integrate forces. Statics are never integrated.
	for _, body := range world.M_bodies {
		if !body.IsDynamic() {
			continue
		}

		body.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(h, Vec2Add(def.Gravity, Vec2MulScalar(body.M_invMass, body.M_force))))
		body.M_angularVelocity += h * body.M_invI * body.M_torque
	}

	// Refresh the transforms and the tree leaves of moved bodies.
	for _, body := range world.M_bodies {
		body.SynchronizeTransform()
		world.M_tree.MoveProxy(body, def.AABBMargin)
	}

	// Broad phase, then narrow phase.
	pairs := world.M_tree.GetCollisionPairs()

	world.M_contacts = world.M_contacts[:0]
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		if a.IsStatic() && b.IsStatic() {
			continue
		}

		manifold := world.M_collide(a, b)
		if manifold == nil {
			continue
		}

		contact := NewContactConstraint(a, b, manifold, def.RestitutionSlop, def.LinearSlop)

		if def.WarmStarting {
			for i := 0; i < contact.M_pointCount; i++ {
				point := &contact.M_points[i]
				if stored, ok := world.M_impulseStore[makeContactKey(a, b, point.M_id)]; ok {
					point.M_normalImpulse = stored.normal
					point.M_tangentImpulse = stored.tangent
				}
			}
		}

		world.M_contacts = append(world.M_contacts, contact)
	}

	// Prepare all constraints: joints in insertion order, then contacts
	// in enumeration order.
	data := SolverData{
		Dt:                 h,
		InvDt:              1.0 / h,
		WarmStarting:       def.WarmStarting,
		PositionCorrection: def.PositionCorrection,
	}

	for _, joint := range world.M_joints {
		joint.Prepare(data)
	}
	for _, contact := range world.M_contacts {
		contact.Prepare(data)
	}

	// Velocity iterations. Every constraint reads the latest body
	// velocities; there is no convergence test.
	for iter := 0; iter < def.VelocityIterations; iter++ {
		for _, joint := range world.M_joints {
			joint.Solve()
		}
		for _, contact := range world.M_contacts {
			contact.Solve()
		}
	}

	// Integrate velocities into poses and clear the force accumulators.
	for _, body := range world.M_bodies {
		if !body.IsDynamic() {
			continue
		}

		body.M_position.OperatorPlusInplace(Vec2MulScalar(h, body.M_linearVelocity))
		body.M_angle += h * body.M_angularVelocity

		body.M_force.SetZero()
		body.M_torque = 0.0

		body.SynchronizeTransform()
	}

	// Carry the accumulated contact impulses into the next tick.
	if def.WarmStarting {
		for key := range world.M_impulseStore {
			delete(world.M_impulseStore, key)
		}
		for _, contact := range world.M_contacts {
			for i := 0; i < contact.M_pointCount; i++ {
				point := &contact.M_points[i]
				key := makeContactKey(contact.M_bodyA, contact.M_bodyB, point.M_id)
				world.M_impulseStore[key] = contactImpulse{
					normal:  point.M_normalImpulse,
					tangent: point.M_tangentImpulse,
				}
			}
		}
	}

	world.M_locked = false
}

func makeContactKey(a, b *Body, pointID uint32) contactKey {
	idA, idB := a.M_id, b.M_id
	if idA > idB {
		idA, idB = idB, idA
	}
	return contactKey{idA: idA, idB: idB, pointID: pointID}
}

/// All bodies whose leaf AABB contains the point. Order is unspecified.
func (world *World) QueryPoint(p Vec2) []*Body {
	var result []*Body
	world.M_tree.QueryPoint(p, func(body *Body) bool {
		result = append(result, body)
		return true
	})

	return result
}

/// All bodies whose leaf AABB overlaps the region. The region is fixed
/// first so inverted bounds are accepted. Order is unspecified.
func (world *World) QueryRegion(region AABB) []*Body {
	var result []*Body
	world.M_tree.QueryAABB(region, func(body *Body) bool {
		result = append(result, body)
		return true
	})

	return result
}

/// Every overlapping leaf pair of the broad phase, each at most once.
func (world *World) GetCollisionPairs() [][2]*Body {
	return world.M_tree.GetCollisionPairs()
}

/// The summed node area of the broad-phase tree.
func (world *World) GetTreeCost() float64 {
	return world.M_tree.ComputeCost()
}

func (world *World) Dump() {
	fmt.Printf("world: bodies=%d joints=%d contacts=%d treeCost=%.6f\n",
		len(world.M_bodies), len(world.M_joints), len(world.M_contacts), world.M_tree.ComputeCost())
	for _, body := range world.M_bodies {
		body.Dump()
	}
	for _, joint := range world.M_joints {
		joint.Dump()
	}
}
