package impulse2d

import (
	"fmt"
)

/// Line joint definition. The joint is defined by two world anchor
/// points; the constrained axis runs from anchor A to anchor B and is
/// frozen in body A's frame at creation. A zero axis falls back to the
/// world x-axis.
type LineJointDef struct {
	JointDef

	/// The world anchor point on bodyA.
	AnchorA Vec2

	/// The world anchor point on bodyB.
	AnchorB Vec2
}

func MakeLineJointDef() LineJointDef {
	res := LineJointDef{
		JointDef: MakeJointDef(),
	}
	res.Type = JointType.E_lineJoint
	res.AnchorA.SetZero()
	res.AnchorB.SetZero()

	return res
}

// d = p2 - p1
// t = perp(axis)
// C = dot(d, t)
// Cdot = dot(t, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//        + dot(cross(w1, t), d)
// J = [-t -cross(d + r1, t) t cross(r2, t)]

/// A line joint keeps body B's anchor on the line through body A's
/// anchor along a fixed axis. Translation along the axis and both
/// rotations stay free.
type LineJoint struct {
	Joint

	M_localAnchorA Vec2
	M_localAnchorB Vec2
	M_localYAxis   Vec2

	// Solver shared
	M_impulse float64

	// Solver temp
	M_ay   Vec2
	M_sAy  float64
	M_sBy  float64
	M_bias float64
	M_mass float64
}

func NewLineJoint(def *LineJointDef) (*LineJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, fmt.Errorf("%w: line joint requires two bodies", ErrInvalidConfiguration)
	}

	base, err := makeJoint(&def.JointDef)
	if err != nil {
		return nil, err
	}

	res := LineJoint{Joint: base}
	res.M_type = JointType.E_lineJoint
	res.M_localAnchorA = def.BodyA.GetLocalPoint(def.AnchorA)
	res.M_localAnchorB = def.BodyB.GetLocalPoint(def.AnchorB)

	axis := Vec2Sub(def.AnchorB, def.AnchorA)
	if axis.Normalize() < Epsilon {
		axis = MakeVec2(1.0, 0.0)
	}
	res.M_localYAxis = def.BodyA.GetLocalVector(axis.Skew())

	res.M_impulse = 0.0

	return &res, nil
}

func (joint *LineJoint) GetAnchorA() Vec2 {
	return joint.M_bodyA.GetWorldPoint(joint.M_localAnchorA)
}

func (joint *LineJoint) GetAnchorB() Vec2 {
	return joint.M_bodyB.GetWorldPoint(joint.M_localAnchorB)
}

func (joint *LineJoint) Prepare(data SolverData) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	joint.computeSoftness(data.Dt)

	rA := RotVec2Mul(bodyA.M_xf.Q, joint.M_localAnchorA)
	rB := RotVec2Mul(bodyB.M_xf.Q, joint.M_localAnchorB)
	d := Vec2Sub(Vec2Add(bodyB.M_position, rB), Vec2Add(bodyA.M_position, rA))

	joint.M_ay = RotVec2Mul(bodyA.M_xf.Q, joint.M_localYAxis)
	joint.M_sAy = Vec2Cross(Vec2Add(d, rA), joint.M_ay)
	joint.M_sBy = Vec2Cross(rB, joint.M_ay)

	invMass := bodyA.M_invMass + bodyB.M_invMass +
		bodyA.M_invI*joint.M_sAy*joint.M_sAy + bodyB.M_invI*joint.M_sBy*joint.M_sBy
	invMass += joint.M_gamma

	if invMass != 0.0 {
		joint.M_mass = 1.0 / invMass
	} else {
		joint.M_mass = 0.0
	}

	if data.PositionCorrection {
		C := Vec2Dot(d, joint.M_ay)
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

func (joint *LineJoint) Solve() {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	Cdot := Vec2Dot(joint.M_ay, Vec2Sub(bodyB.M_linearVelocity, bodyA.M_linearVelocity)) +
		joint.M_sBy*bodyB.M_angularVelocity - joint.M_sAy*bodyA.M_angularVelocity

	impulse := -joint.M_mass * (Cdot + joint.M_bias + joint.M_gamma*joint.M_impulse)
	joint.applyImpulse(impulse)
	joint.M_impulse += impulse
}

func (joint *LineJoint) applyImpulse(impulse float64) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	P := Vec2MulScalar(impulse, joint.M_ay)

	bodyA.M_linearVelocity.OperatorMinusInplace(Vec2MulScalar(bodyA.M_invMass, P))
	bodyA.M_angularVelocity -= bodyA.M_invI * joint.M_sAy * impulse
	bodyB.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(bodyB.M_invMass, P))
	bodyB.M_angularVelocity += bodyB.M_invI * joint.M_sBy * impulse
}

func (joint *LineJoint) Dump() {
	fmt.Printf("line joint: bodyA=%d bodyB=%d\n", joint.M_bodyA.M_id, joint.M_bodyB.M_id)
}
