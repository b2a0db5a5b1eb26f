package impulse2d

import (
	"fmt"
)

/// Weld joint definition. The anchor is a single world point shared by
/// both bodies at creation time.
type WeldJointDef struct {
	JointDef

	/// The world anchor point the bodies are welded at.
	Anchor Vec2
}

func MakeWeldJointDef() WeldJointDef {
	res := WeldJointDef{
		JointDef: MakeJointDef(),
	}
	res.Type = JointType.E_weldJoint
	res.Anchor.SetZero()

	return res
}

// C = (p2 - p1; a2 - a1 - referenceAngle)
// J = [-I -r1_skew I r2_skew]
//     [ 0    -1    0    1   ]

/// A weld joint removes all relative degrees of freedom between two
/// bodies: the anchor points stay coincident and the relative angle stays
/// at its creation-time value.
type WeldJoint struct {
	Joint

	M_localAnchorA   Vec2
	M_localAnchorB   Vec2
	M_referenceAngle float64

	// Solver shared
	M_impulse Vec3

	// Solver temp
	M_rA   Vec2
	M_rB   Vec2
	M_bias Vec3
	M_mass Mat33
}

func NewWeldJoint(def *WeldJointDef) (*WeldJoint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, fmt.Errorf("%w: weld joint requires two bodies", ErrInvalidConfiguration)
	}

	base, err := makeJoint(&def.JointDef)
	if err != nil {
		return nil, err
	}

	res := WeldJoint{Joint: base}
	res.M_type = JointType.E_weldJoint
	res.M_localAnchorA = def.BodyA.GetLocalPoint(def.Anchor)
	res.M_localAnchorB = def.BodyB.GetLocalPoint(def.Anchor)
	res.M_referenceAngle = def.BodyB.M_angle - def.BodyA.M_angle
	res.M_impulse.SetZero()

	return &res, nil
}

func (joint *WeldJoint) GetReferenceAngle() float64 {
	return joint.M_referenceAngle
}

func (joint *WeldJoint) GetAnchorA() Vec2 {
	return joint.M_bodyA.GetWorldPoint(joint.M_localAnchorA)
}

func (joint *WeldJoint) GetAnchorB() Vec2 {
	return joint.M_bodyB.GetWorldPoint(joint.M_localAnchorB)
}

func (joint *WeldJoint) Prepare(data SolverData) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	joint.computeSoftness(data.Dt)

	joint.M_rA = RotVec2Mul(bodyA.M_xf.Q, joint.M_localAnchorA)
	joint.M_rB = RotVec2Mul(bodyB.M_xf.Q, joint.M_localAnchorB)

	mA, mB := bodyA.M_invMass, bodyB.M_invMass
	iA, iB := bodyA.M_invI, bodyB.M_invI
	rA, rB := joint.M_rA, joint.M_rB

	var K Mat33
	K.Ex.X = mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y + joint.M_gamma
	K.Ey.X = -iA*rA.X*rA.Y - iB*rB.X*rB.Y
	K.Ez.X = -iA*rA.Y - iB*rB.Y
	K.Ex.Y = K.Ey.X
	K.Ey.Y = mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X + joint.M_gamma
	K.Ez.Y = iA*rA.X + iB*rB.X
	K.Ex.Z = K.Ez.X
	K.Ey.Z = K.Ez.Y
	K.Ez.Z = iA + iB + joint.M_gamma

	joint.M_mass = K

	if data.PositionCorrection {
		pA := Vec2Add(bodyA.M_position, rA)
		pB := Vec2Add(bodyB.M_position, rB)
		Cp := Vec2Sub(pB, pA)
		Ca := bodyB.M_angle - bodyA.M_angle - joint.M_referenceAngle

		joint.M_bias = Vec3MulScalar(joint.M_beta*data.InvDt, MakeVec3(Cp.X, Cp.Y, Ca))
	} else {
		joint.M_bias.SetZero()
	}

	if data.WarmStarting {
		joint.applyImpulse(joint.M_impulse)
	} else {
		joint.M_impulse.SetZero()
	}
}

func (joint *WeldJoint) Solve() {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	vpA := Vec2Add(bodyA.M_linearVelocity, Vec2CrossScalarVector(bodyA.M_angularVelocity, joint.M_rA))
	vpB := Vec2Add(bodyB.M_linearVelocity, Vec2CrossScalarVector(bodyB.M_angularVelocity, joint.M_rB))

	Cdot := MakeVec3(
		vpB.X-vpA.X,
		vpB.Y-vpA.Y,
		bodyB.M_angularVelocity-bodyA.M_angularVelocity,
	)

	rhs := Vec3Add(Vec3Add(Cdot, joint.M_bias), Vec3MulScalar(joint.M_gamma, joint.M_impulse))
	impulse := joint.M_mass.Solve33(rhs.OperatorNegate())

	joint.applyImpulse(impulse)
	joint.M_impulse.OperatorPlusInplace(impulse)
}

func (joint *WeldJoint) applyImpulse(impulse Vec3) {
	bodyA := joint.M_bodyA
	bodyB := joint.M_bodyB

	P := MakeVec2(impulse.X, impulse.Y)

	bodyA.M_linearVelocity.OperatorMinusInplace(Vec2MulScalar(bodyA.M_invMass, P))
	bodyA.M_angularVelocity -= bodyA.M_invI * (Vec2Cross(joint.M_rA, P) + impulse.Z)
	bodyB.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(bodyB.M_invMass, P))
	bodyB.M_angularVelocity += bodyB.M_invI * (Vec2Cross(joint.M_rB, P) + impulse.Z)
}

func (joint *WeldJoint) Dump() {
	fmt.Printf("weld joint: bodyA=%d bodyB=%d referenceAngle=%.6f\n",
		joint.M_bodyA.M_id, joint.M_bodyB.M_id, joint.M_referenceAngle)
}
