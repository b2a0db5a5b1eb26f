package impulse2d

import (
	"fmt"
)

/// Prismatic joint definition. Defined like the line joint by two world
/// anchor points; additionally locks the relative rotation at its
/// creation-time value.
type PrismaticJointDef struct {
	JointDef

	/// The world anchor point on bodyA.
	AnchorA Vec2

	/// The world anchor point on bodyB.
	AnchorB Vec2
}

func MakePrismaticJointDef() PrismaticJointDef {
	res := PrismaticJointDef{
		JointDef: MakeJointDef(),
	}
	res.Type = JointType.E_prismaticJoint
	res.AnchorA.SetZero()
	res.AnchorB.SetZero()

	return res
}

// C = (dot(d, t); a2 - a1 - referenceAngle)
// J = [-t -cross(d + r1, t) t cross(r2, t)]
//     [ 0        -1         0       1     ]

/// A prismatic joint allows relative translation of two bodies along an
/// axis fixed in body A's frame and prevents relative rotation. It is
/// the line joint plus an angular row.
type PrismaticJoint struct {
	Joint

	M_localAnchorA   Vec2
	M_localAnchorB   Vec2
	M_localYAxis     Vec2
	M_referenceAngle float64

	// Solver shared
	M_impulse Vec2

	// Solver temp
	M_ay   Vec2
	M_sAy  float64
	M_sBy  float64
	M_bias Vec2
	M_mass Mat22
}

func NewPrismaticJoint(def *PrismaticJointDef) (*PrismaticJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, fmt.Errorf("%w: prismatic joint requires two bodies", ErrInvalidConfiguration)
	}

	base, err := makeJoint(&def.JointDef)
	if err != nil {
		return nil, err
	}

	res := PrismaticJoint{Joint: base}
	res.M_type = JointType.E_prismaticJoint
	res.M_localAnchorA = def.BodyA.GetLocalPoint(def.AnchorA)
	res.M_localAnchorB = def.BodyB.GetLocalPoint(def.AnchorB)
	res.M_referenceAngle = def.BodyB.M_angle - def.BodyA.M_angle

	axis := Vec2Sub(def.AnchorB, def.AnchorA)
	if axis.Normalize() < Epsilon {
		axis = MakeVec2(1.0, 0.0)
	}
	res.M_localYAxis = def.BodyA.GetLocalVector(axis.Skew())

	res.M_impulse.SetZero()

	return &res, nil
}

func (joint *PrismaticJoint) GetReferenceAngle() float64 {
	return joint.M_referenceAngle
}

func (joint *PrismaticJoint) GetAnchorA() Vec2 {
	return joint.M_bodyA.GetWorldPoint(joint.M_localAnchorA)
}

func (joint *PrismaticJoint) GetAnchorB() Vec2 {
	return joint.M_bodyB.GetWorldPoint(joint.M_localAnchorB)
}

func (joint *PrismaticJoint) Prepare(data SolverData) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	joint.computeSoftness(data.Dt)

	rA := RotVec2Mul(bodyA.M_xf.Q, joint.M_localAnchorA)
	rB := RotVec2Mul(bodyB.M_xf.Q, joint.M_localAnchorB)
	d := Vec2Sub(Vec2Add(bodyB.M_position, rB), Vec2Add(bodyA.M_position, rA))

	joint.M_ay = RotVec2Mul(bodyA.M_xf.Q, joint.M_localYAxis)
	joint.M_sAy = Vec2Cross(Vec2Add(d, rA), joint.M_ay)
	joint.M_sBy = Vec2Cross(rB, joint.M_ay)

	mA, mB := bodyA.M_invMass, bodyB.M_invMass
	iA, iB := bodyA.M_invI, bodyB.M_invI

	// K = [J M^-1 J^T] with gamma on the diagonal.
	var K Mat22
	K.Ex.X = mA + mB + iA*joint.M_sAy*joint.M_sAy + iB*joint.M_sBy*joint.M_sBy + joint.M_gamma
	K.Ex.Y = iA*joint.M_sAy + iB*joint.M_sBy
	K.Ey.X = K.Ex.Y
	K.Ey.Y = iA + iB + joint.M_gamma

	joint.M_mass = K.GetInverse()

	if data.PositionCorrection {
		C := MakeVec2(
			Vec2Dot(d, joint.M_ay),
			bodyB.M_angle-bodyA.M_angle-joint.M_referenceAngle,
		)
		joint.M_bias = Vec2MulScalar(joint.M_beta*data.InvDt, C)
	} else {
		joint.M_bias.SetZero()
	}

	if data.WarmStarting {
		joint.applyImpulse(joint.M_impulse)
	} else {
		joint.M_impulse.SetZero()
	}
}

func (joint *PrismaticJoint) Solve() {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	Cdot := MakeVec2(
		Vec2Dot(joint.M_ay, Vec2Sub(bodyB.M_linearVelocity, bodyA.M_linearVelocity))+
			joint.M_sBy*bodyB.M_angularVelocity-joint.M_sAy*bodyA.M_angularVelocity,
		bodyB.M_angularVelocity-bodyA.M_angularVelocity,
	)

	rhs := Vec2Add(Vec2Add(Cdot, joint.M_bias), Vec2MulScalar(joint.M_gamma, joint.M_impulse))
	impulse := Vec2Mat22Mul(joint.M_mass, rhs.OperatorNegate())

	joint.applyImpulse(impulse)
	joint.M_impulse.OperatorPlusInplace(impulse)
}

func (joint *PrismaticJoint) applyImpulse(impulse Vec2) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	P := Vec2MulScalar(impulse.X, joint.M_ay)
	LA := joint.M_sAy*impulse.X + impulse.Y
	LB := joint.M_sBy*impulse.X + impulse.Y

	bodyA.M_linearVelocity.OperatorMinusInplace(Vec2MulScalar(bodyA.M_invMass, P))
	bodyA.M_angularVelocity -= bodyA.M_invI * LA
	bodyB.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(bodyB.M_invMass, P))
	bodyB.M_angularVelocity += bodyB.M_invI * LB
}

func (joint *PrismaticJoint) Dump() {
	fmt.Printf("prismatic joint: bodyA=%d bodyB=%d referenceAngle=%.6f\n",
		joint.M_bodyA.M_id, joint.M_bodyB.M_id, joint.M_referenceAngle)
}
