package impulse2d

import (
	"fmt"
)

/// The body type.
/// static: zero mass, zero velocity, may be manually moved
/// dynamic: positive mass, non-zero velocity determined by forces, moved by solver
var BodyType = struct {
	E_staticBody  uint8
	E_dynamicBody uint8
}{
	E_staticBody:  0,
	E_dynamicBody: 1,
}

/// A body definition holds all the data needed to construct a rigid body.
/// You can safely re-use body definitions.
type BodyDef struct {
	/// The body type: static or dynamic.
	Type uint8

	/// The world position of the body.
	Position Vec2

	/// The world angle of the body in radians.
	Angle float64

	/// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity Vec2

	/// The angular velocity of the body.
	AngularVelocity float64

	/// The density, usually in kg/m^2. Mass and inertia are derived from
	/// the shape. Must be positive for dynamic bodies.
	Density float64

	/// The friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	/// The contact position-correction factor (Baumgarte) in [0,1].
	Beta float64

	/// Use this to store application specific body data.
	UserData interface{}
}

/// This constructor sets the body definition default values.
func MakeBodyDef() BodyDef {
	return BodyDef{
		Type:            BodyType.E_staticBody,
		Position:        MakeVec2(0, 0),
		Angle:           0.0,
		LinearVelocity:  MakeVec2(0, 0),
		AngularVelocity: 0.0,
		Density:         1.0,
		Friction:        0.5,
		Restitution:     0.0,
		Beta:            0.2,
		UserData:        nil,
	}
}

func NewBodyDef() *BodyDef {
	res := MakeBodyDef()
	return &res
}

/// A rigid body. Bodies are created standalone with NewBody and owned by a
/// world once added to it.
type Body struct {
	M_id int

	M_type uint8

	M_position Vec2
	M_angle    float64

	// The body origin transform, recomputed from (position, angle) every
	// tick. Callers must not cache it across a step boundary.
	M_xf Transform

	M_linearVelocity  Vec2
	M_angularVelocity float64

	M_force  Vec2
	M_torque float64

	M_mass, M_invMass float64

	// Rotational inertia about the body origin.
	M_I, M_invI float64

	M_friction    float64
	M_restitution float64
	M_beta        float64

	M_shape Shape

	// Index of the leaf node in the broad-phase tree; NullNode while the
	// body is not in a world. The body never owns the node.
	M_node int

	M_world *World

	M_userData interface{}
}

/// Create a body from a definition and a shape. Mass and rotational
/// inertia are derived from the shape and the definition's density; a
/// dynamic body whose derived mass is not positive is an invalid
/// configuration.
func NewBody(def *BodyDef, shape Shape) (*Body, error) {
	if shape == nil {
		return nil, fmt.Errorf("%w: body requires a shape", ErrInvalidConfiguration)
	}

	if !def.Position.IsValid() || !IsValidFloat(def.Angle) {
		return nil, fmt.Errorf("%w: body pose is not finite", ErrInvalidConfiguration)
	}

	body := &Body{}
	body.M_type = def.Type
	body.M_position = def.Position
	body.M_angle = def.Angle
	body.M_xf = MakeTransformByPositionAndAngle(def.Position, def.Angle)
	body.M_linearVelocity = def.LinearVelocity
	body.M_angularVelocity = def.AngularVelocity
	body.M_friction = FloatClamp(def.Friction, 0.0, 1.0)
	body.M_restitution = FloatClamp(def.Restitution, 0.0, 1.0)
	body.M_beta = FloatClamp(def.Beta, 0.0, 1.0)
	body.M_shape = shape.Clone()
	body.M_node = NullNode
	body.M_userData = def.UserData

	if body.M_type == BodyType.E_dynamicBody {
		if def.Density <= 0.0 {
			return nil, fmt.Errorf("%w: dynamic body requires positive density", ErrInvalidConfiguration)
		}

		massData := body.M_shape.ComputeMass(def.Density)
		if massData.Mass <= 0.0 {
			return nil, fmt.Errorf("%w: dynamic body requires positive mass", ErrInvalidConfiguration)
		}

		body.M_mass = massData.Mass
		body.M_invMass = 1.0 / massData.Mass
		body.M_I = massData.I
		if massData.I > 0.0 {
			body.M_invI = 1.0 / massData.I
		}
	} else {
		body.M_linearVelocity.SetZero()
		body.M_angularVelocity = 0.0
	}

	return body, nil
}

func (body *Body) GetID() int {
	return body.M_id
}

func (body *Body) GetType() uint8 {
	return body.M_type
}

func (body *Body) IsStatic() bool {
	return body.M_type == BodyType.E_staticBody
}

func (body *Body) IsDynamic() bool {
	return body.M_type == BodyType.E_dynamicBody
}

func (body *Body) GetShape() Shape {
	return body.M_shape
}

func (body *Body) GetPosition() Vec2 {
	return body.M_position
}

func (body *Body) GetAngle() float64 {
	return body.M_angle
}

func (body *Body) GetTransform() Transform {
	return body.M_xf
}

/// Move the body to a new pose. The broad-phase proxy follows immediately.
func (body *Body) SetTransform(position Vec2, angle float64) {
	body.M_position = position
	body.M_angle = angle
	body.SynchronizeTransform()

	if body.M_world != nil && body.M_node != NullNode {
		body.M_world.M_tree.MoveProxy(body, body.M_world.M_def.AABBMargin)
	}
}

func (body *Body) SetLinearVelocity(v Vec2) {
	if body.M_type == BodyType.E_staticBody {
		return
	}

	body.M_linearVelocity = v
}

func (body *Body) GetLinearVelocity() Vec2 {
	return body.M_linearVelocity
}

func (body *Body) SetAngularVelocity(w float64) {
	if body.M_type == BodyType.E_staticBody {
		return
	}

	body.M_angularVelocity = w
}

func (body *Body) GetAngularVelocity() float64 {
	return body.M_angularVelocity
}

func (body *Body) GetMass() float64 {
	return body.M_mass
}

func (body *Body) GetInverseMass() float64 {
	return body.M_invMass
}

/// Set the mass. The cached inverse is recomputed with it. Ignored on
/// static bodies, which stay at zero inverse mass.
func (body *Body) SetMass(mass float64) {
	if body.M_type == BodyType.E_staticBody {
		return
	}

	Assert(IsValidFloat(mass) && mass >= 0.0)

	body.M_mass = mass
	if mass > 0.0 {
		body.M_invMass = 1.0 / mass
	} else {
		body.M_invMass = 0.0
	}
}

func (body *Body) GetInertia() float64 {
	return body.M_I
}

func (body *Body) GetInverseInertia() float64 {
	return body.M_invI
}

/// Set the rotational inertia about the body origin. The cached inverse
/// is recomputed with it. Ignored on static bodies.
func (body *Body) SetInertia(I float64) {
	if body.M_type == BodyType.E_staticBody {
		return
	}

	Assert(IsValidFloat(I) && I >= 0.0)

	body.M_I = I
	if I > 0.0 {
		body.M_invI = 1.0 / I
	} else {
		body.M_invI = 0.0
	}
}

/// Recompute mass and inertia from the shape at the given density.
func (body *Body) ResetMassData(density float64) {
	if body.M_type == BodyType.E_staticBody {
		return
	}

	massData := body.M_shape.ComputeMass(density)
	body.SetMass(massData.Mass)
	body.SetInertia(massData.I)
}

func (body *Body) GetFriction() float64 {
	return body.M_friction
}

func (body *Body) SetFriction(friction float64) {
	body.M_friction = FloatClamp(friction, 0.0, 1.0)
}

func (body *Body) GetRestitution() float64 {
	return body.M_restitution
}

func (body *Body) SetRestitution(restitution float64) {
	body.M_restitution = FloatClamp(restitution, 0.0, 1.0)
}

func (body *Body) GetBeta() float64 {
	return body.M_beta
}

func (body *Body) SetBeta(beta float64) {
	body.M_beta = FloatClamp(beta, 0.0, 1.0)
}

func (body *Body) GetUserData() interface{} {
	return body.M_userData
}

func (body *Body) SetUserData(data interface{}) {
	body.M_userData = data
}

/// Get the world coordinates of a point given the local coordinates.
func (body *Body) GetWorldPoint(localPoint Vec2) Vec2 {
	return TransformVec2Mul(body.M_xf, localPoint)
}

/// Get the world coordinates of a vector given the local coordinates.
func (body *Body) GetWorldVector(localVector Vec2) Vec2 {
	return RotVec2Mul(body.M_xf.Q, localVector)
}

/// Gets a local point relative to the body's origin given a world point.
func (body *Body) GetLocalPoint(worldPoint Vec2) Vec2 {
	return TransformVec2MulT(body.M_xf, worldPoint)
}

/// Gets a local vector given a world vector.
func (body *Body) GetLocalVector(worldVector Vec2) Vec2 {
	return RotVec2MulT(body.M_xf.Q, worldVector)
}

/// Apply a force at the center of mass.
func (body *Body) ApplyForce(force Vec2) {
	if body.M_type != BodyType.E_dynamicBody {
		return
	}

	body.M_force.OperatorPlusInplace(force)
}

func (body *Body) ApplyTorque(torque float64) {
	if body.M_type != BodyType.E_dynamicBody {
		return
	}

	body.M_torque += torque
}

/// Apply an impulse at a world point. This immediately modifies the
/// velocity and the angular velocity when the point is off center.
func (body *Body) ApplyLinearImpulse(impulse Vec2, point Vec2) {
	if body.M_type != BodyType.E_dynamicBody {
		return
	}

	body.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(body.M_invMass, impulse))
	body.M_angularVelocity += body.M_invI * Vec2Cross(Vec2Sub(point, body.M_position), impulse)
}

/// Tight AABB of the body's shape at the current transform.
func (body *Body) ComputeAABB() AABB {
	return body.M_shape.ComputeAABB(body.M_xf)
}

func (body *Body) SynchronizeTransform() {
	body.M_xf = MakeTransformByPositionAndAngle(body.M_position, body.M_angle)
}

func (body *Body) Dump() {
	fmt.Printf("body %d: type=%d position=(%.6f %.6f) angle=%.6f v=(%.6f %.6f) w=%.6f mass=%.6f I=%.6f\n",
		body.M_id, body.M_type,
		body.M_position.X, body.M_position.Y, body.M_angle,
		body.M_linearVelocity.X, body.M_linearVelocity.Y, body.M_angularVelocity,
		body.M_mass, body.M_I)
}
