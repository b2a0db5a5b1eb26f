package impulse2d

import (
	"fmt"
)

/// Grab joint definition. This requires a world target point and the
/// dynamic body to be pulled toward it.
type GrabJointDef struct {
	JointDef

	/// The grabbed point relative to the body origin.
	LocalAnchor Vec2

	/// The initial world target point.
	Target Vec2
}

func MakeGrabJointDef() GrabJointDef {
	res := GrabJointDef{
		JointDef: MakeJointDef(),
	}
	res.Type = JointType.E_grabJoint
	res.LocalAnchor.SetZero()
	res.Target.SetZero()
	res.FrequencyHz = 5.0
	res.DampingRatio = 0.7

	return res
}

// p = attached point, m = target point
// C = p - m
// Cdot = v + cross(w, r)
// J = [I r_skew]

/// A grab joint pulls a point on a single body toward a world-space
/// target. It is a soft two-row constraint; the target can be moved
/// every tick.
type GrabJoint struct {
	Joint

	M_localAnchor Vec2
	M_target      Vec2

	// Solver shared
	M_impulse Vec2

	// Solver temp
	M_r    Vec2
	M_bias Vec2
	M_mass Mat22
}

func NewGrabJoint(def *GrabJointDef) (*GrabJoint, error) {
	if def.BodyB == nil {
		return nil, fmt.Errorf("%w: grab joint requires a body", ErrInvalidConfiguration)
	}

	if !def.BodyB.IsDynamic() {
		return nil, fmt.Errorf("%w: grab joint requires a dynamic body", ErrInvalidConfiguration)
	}

	if !def.Target.IsValid() {
		return nil, fmt.Errorf("%w: grab target is not finite", ErrInvalidConfiguration)
	}

	base, err := makeJoint(&def.JointDef)
	if err != nil {
		return nil, err
	}

	res := GrabJoint{Joint: base}
	res.M_type = JointType.E_grabJoint
	res.M_target = def.Target
	res.M_localAnchor = def.LocalAnchor
	res.M_impulse.SetZero()

	return &res, nil
}

func (joint *GrabJoint) SetTarget(target Vec2) {
	joint.M_target = target
}

func (joint *GrabJoint) GetTarget() Vec2 {
	return joint.M_target
}

func (joint *GrabJoint) GetAnchor() Vec2 {
	return joint.M_bodyB.GetWorldPoint(joint.M_localAnchor)
}

func (joint *GrabJoint) Prepare(data SolverData) {
	body := joint.M_bodyB

	joint.computeSoftness(data.Dt)

	joint.M_r = RotVec2Mul(body.M_xf.Q, joint.M_localAnchor)

	// K = [1/m + invI*ry*ry + gamma    -invI*rx*ry               ]
	//     [-invI*rx*ry                 1/m + invI*rx*rx + gamma  ]
	var K Mat22
	K.Ex.X = body.M_invMass + body.M_invI*joint.M_r.Y*joint.M_r.Y + joint.M_gamma
	K.Ex.Y = -body.M_invI * joint.M_r.X * joint.M_r.Y
	K.Ey.X = K.Ex.Y
	K.Ey.Y = body.M_invMass + body.M_invI*joint.M_r.X*joint.M_r.X + joint.M_gamma

	joint.M_mass = K.GetInverse()

	if data.PositionCorrection {
		C := Vec2Sub(Vec2Add(body.M_position, joint.M_r), joint.M_target)
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

func (joint *GrabJoint) Solve() {
	body := joint.M_bodyB

	// Cdot = v + cross(w, r)
	Cdot := Vec2Add(body.M_linearVelocity, Vec2CrossScalarVector(body.M_angularVelocity, joint.M_r))

	rhs := Vec2Add(Vec2Add(Cdot, joint.M_bias), Vec2MulScalar(joint.M_gamma, joint.M_impulse))
	impulse := Vec2Mat22Mul(joint.M_mass, rhs.OperatorNegate())

	joint.applyImpulse(impulse)
	joint.M_impulse.OperatorPlusInplace(impulse)
}

func (joint *GrabJoint) applyImpulse(impulse Vec2) {
	body := joint.M_bodyB

	body.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(body.M_invMass, impulse))
	body.M_angularVelocity += body.M_invI * Vec2Cross(joint.M_r, impulse)
}

func (joint *GrabJoint) Dump() {
	fmt.Printf("grab joint: body=%d target=(%.6f %.6f) frequency=%.6f damping=%.6f\n",
		joint.M_bodyB.M_id, joint.M_target.X, joint.M_target.Y, joint.M_frequencyHz, joint.M_dampingRatio)
}
