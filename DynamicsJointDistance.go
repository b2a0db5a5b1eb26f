package impulse2d

import (
	"fmt"
)

/// Distance joint definition. This requires defining an anchor point on
/// both bodies and a rest length. The definition uses local anchor
/// points. A non-positive length selects the anchor separation at
/// creation time.
type DistanceJointDef struct {
	JointDef

	/// The local anchor point relative to bodyA's origin.
	LocalAnchorA Vec2

	/// The local anchor point relative to bodyB's origin.
	LocalAnchorB Vec2

	/// The rest length of this joint.
	Length float64
}

func MakeDistanceJointDef() DistanceJointDef {
	res := DistanceJointDef{
		JointDef: MakeJointDef(),
	}
	res.Type = JointType.E_distanceJoint
	res.LocalAnchorA.SetZero()
	res.LocalAnchorB.SetZero()
	res.Length = 0.0

	return res
}

// 1-D constraint along the line between the anchors:
// C = |p2 - p1| - L
// u = (p2 - p1) / |p2 - p1|
// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-u -cross(r1, u) u cross(r2, u)]

/// A distance joint constrains two anchor points on two bodies to remain
/// at a fixed distance from each other.
type DistanceJoint struct {
	Joint

	M_localAnchorA Vec2
	M_localAnchorB Vec2
	M_length       float64

	// Solver shared
	M_impulse float64

	// Solver temp
	M_rA   Vec2
	M_rB   Vec2
	M_u    Vec2
	M_bias float64
	M_mass float64
}

func NewDistanceJoint(def *DistanceJointDef) (*DistanceJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, fmt.Errorf("%w: distance joint requires two bodies", ErrInvalidConfiguration)
	}

	base, err := makeJoint(&def.JointDef)
	if err != nil {
		return nil, err
	}

	res := DistanceJoint{Joint: base}
	res.M_type = JointType.E_distanceJoint
	res.M_localAnchorA = def.LocalAnchorA
	res.M_localAnchorB = def.LocalAnchorB

	res.M_length = def.Length
	if res.M_length <= 0.0 {
		pA := def.BodyA.GetWorldPoint(def.LocalAnchorA)
		pB := def.BodyB.GetWorldPoint(def.LocalAnchorB)
		res.M_length = Vec2Distance(pA, pB)
	}

	res.M_impulse = 0.0

	return &res, nil
}

func (joint *DistanceJoint) GetLength() float64 {
	return joint.M_length
}

func (joint *DistanceJoint) SetLength(length float64) {
	joint.M_length = length
}

func (joint *DistanceJoint) GetAnchorA() Vec2 {
	return joint.M_bodyA.GetWorldPoint(joint.M_localAnchorA)
}

func (joint *DistanceJoint) GetAnchorB() Vec2 {
	return joint.M_bodyB.GetWorldPoint(joint.M_localAnchorB)
}

func (joint *DistanceJoint) Prepare(data SolverData) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	joint.M_rA = RotVec2Mul(bodyA.M_xf.Q, joint.M_localAnchorA)
	joint.M_rB = RotVec2Mul(bodyB.M_xf.Q, joint.M_localAnchorB)

	pA := Vec2Add(bodyA.M_position, joint.M_rA)
	pB := Vec2Add(bodyB.M_position, joint.M_rB)

	joint.M_u = Vec2Sub(pB, pA)

	// Handle singularity.
	length := joint.M_u.Normalize()
	if length < Epsilon {
		joint.M_u = MakeVec2(1.0, 0.0)
	}

	joint.computeSoftness(data.Dt)

	crAu := Vec2Cross(joint.M_rA, joint.M_u)
	crBu := Vec2Cross(joint.M_rB, joint.M_u)
	invMass := bodyA.M_invMass + bodyA.M_invI*crAu*crAu + bodyB.M_invMass + bodyB.M_invI*crBu*crBu
	invMass += joint.M_gamma

	if invMass != 0.0 {
		joint.M_mass = 1.0 / invMass
	} else {
		joint.M_mass = 0.0
	}

	if data.PositionCorrection {
		C := length - joint.M_length
		joint.M_bias = joint.M_beta * data.InvDt * C
	} else {
		joint.M_bias = 0.0
	}

	if data.WarmStarting {
		joint.applyImpulse(joint.M_impulse)
	} else {
		joint.M_impulse = 0.0
	}
}

func (joint *DistanceJoint) Solve() {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
	vpA := Vec2Add(bodyA.M_linearVelocity, Vec2CrossScalarVector(bodyA.M_angularVelocity, joint.M_rA))
	vpB := Vec2Add(bodyB.M_linearVelocity, Vec2CrossScalarVector(bodyB.M_angularVelocity, joint.M_rB))
	Cdot := Vec2Dot(joint.M_u, Vec2Sub(vpB, vpA))

	impulse := -joint.M_mass * (Cdot + joint.M_bias + joint.M_gamma*joint.M_impulse)
	joint.applyImpulse(impulse)
	joint.M_impulse += impulse
}

func (joint *DistanceJoint) applyImpulse(impulse float64) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	P := Vec2MulScalar(impulse, joint.M_u)

	bodyA.M_linearVelocity.OperatorMinusInplace(Vec2MulScalar(bodyA.M_invMass, P))
	bodyA.M_angularVelocity -= bodyA.M_invI * Vec2Cross(joint.M_rA, P)
	bodyB.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(bodyB.M_invMass, P))
	bodyB.M_angularVelocity += bodyB.M_invI * Vec2Cross(joint.M_rB, P)
}

func (joint *DistanceJoint) Dump() {
	fmt.Printf("distance joint: bodyA=%d bodyB=%d length=%.6f frequency=%.6f damping=%.6f\n",
		joint.M_bodyA.M_id, joint.M_bodyB.M_id, joint.M_length, joint.M_frequencyHz, joint.M_dampingRatio)
}
