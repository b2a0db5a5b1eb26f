package impulse2d

import (
	"fmt"
)

var JointType = struct {
	E_unknownJoint   uint8
	E_distanceJoint  uint8
	E_grabJoint      uint8
	E_weldJoint      uint8
	E_lineJoint      uint8
	E_prismaticJoint uint8
}{
	E_unknownJoint:   0,
	E_distanceJoint:  1,
	E_grabJoint:      2,
	E_weldJoint:      3,
	E_lineJoint:      4,
	E_prismaticJoint: 5,
}

/// Solver context for one tick. Prepared constraints keep the values they
/// need; Solve never re-reads the step.
type SolverData struct {
	Dt                 float64
	InvDt              float64
	WarmStarting       bool
	PositionCorrection bool
}

/// The shared solver contract. Prepare assembles the Jacobian rows and
/// the effective mass for the current pose and applies the warm-start
/// impulse; Solve computes one corrective impulse from the latest body
/// velocities and applies it. The world calls Prepare once per tick and
/// Solve once per velocity iteration, always in the same order.
type Constraint interface {
	Prepare(data SolverData)
	Solve()
}

/// Joint definitions are used to construct joints.
type JointDef struct {
	Type uint8

	/// The first attached body.
	BodyA *Body

	/// The second attached body.
	BodyB *Body

	/// The softness frequency in hertz. Non-positive selects a rigid
	/// joint; positive values are clamped up to MinJointFrequency.
	FrequencyHz float64

	/// The damping ratio. 0 = no damping, 1 = critical damping. Clamped
	/// to [0,1].
	DampingRatio float64

	/// Overrides the effective mass used for the spring reduction. Zero
	/// selects body B's mass.
	JointMass float64

	/// Use this to attach application specific data to your joints.
	UserData interface{}
}

func MakeJointDef() JointDef {
	return JointDef{
		Type:         JointType.E_unknownJoint,
		BodyA:        nil,
		BodyB:        nil,
		FrequencyHz:  0.0,
		DampingRatio: 1.0,
		JointMass:    0.0,
		UserData:     nil,
	}
}

/// The base joint class. Joints are used to constrain two bodies (or one
/// body and a world-space target) together in various fashions.
type Joint struct {
	M_type  uint8
	M_bodyA *Body
	M_bodyB *Body

	M_frequencyHz  float64
	M_dampingRatio float64
	M_jointMass    float64

	// Softness terms recomputed in Prepare.
	M_beta  float64
	M_gamma float64

	M_userData interface{}
}

type JointInterface interface {
	Constraint

	GetType() uint8
	GetBodyA() *Body
	GetBodyB() *Body
	GetUserData() interface{}
	SetUserData(data interface{})
	Dump()
}

func makeJoint(def *JointDef) (Joint, error) {
	bodyA := def.BodyA
	bodyB := def.BodyB

	if bodyA != nil && bodyA == bodyB {
		return Joint{}, fmt.Errorf("%w: joint connects a body to itself", ErrInvalidConfiguration)
	}

	if bodyA != nil && bodyB != nil && bodyA.IsStatic() && bodyB.IsStatic() {
		return Joint{}, fmt.Errorf("%w: joint between two static bodies", ErrInvalidConfiguration)
	}

	res := Joint{}
	res.M_type = def.Type
	res.M_bodyA = bodyA
	res.M_bodyB = bodyB
	res.M_frequencyHz = def.FrequencyHz
	res.M_dampingRatio = FloatClamp(def.DampingRatio, 0.0, 1.0)
	res.M_jointMass = def.JointMass
	res.M_userData = def.UserData

	return res, nil
}

func (j *Joint) GetType() uint8 {
	return j.M_type
}

func (j *Joint) GetBodyA() *Body {
	return j.M_bodyA
}

func (j *Joint) GetBodyB() *Body {
	return j.M_bodyB
}

func (j *Joint) GetUserData() interface{} {
	return j.M_userData
}

func (j *Joint) SetUserData(data interface{}) {
	j.M_userData = data
}

func (j *Joint) GetFrequency() float64 {
	return j.M_frequencyHz
}

func (j *Joint) SetFrequency(hz float64) {
	j.M_frequencyHz = hz
}

func (j *Joint) GetDampingRatio() float64 {
	return j.M_dampingRatio
}

func (j *Joint) SetDampingRatio(ratio float64) {
	j.M_dampingRatio = FloatClamp(ratio, 0.0, 1.0)
}

// The spring/damper reduction shared by every joint, so the time
// dependence of gamma is identical across joint kinds.
//
//	omega = 2 * pi * frequency
//	d     = 2 * mass * dampingRatio * omega
//	k     = mass * omega^2
//	beta  = h*k / (d + h*k)
//	gamma = 1 / ((d + h*k) * h)
//
// A non-positive frequency selects a rigid joint: gamma is zero and
// position error is bled off with the fixed Baumgarte factor.
func (j *Joint) computeSoftness(h float64) {
	if j.M_frequencyHz <= 0.0 {
		j.M_beta = JointBaumgarte
		j.M_gamma = 0.0
		return
	}

	frequency := j.M_frequencyHz
	if frequency < MinJointFrequency {
		frequency = MinJointFrequency
	}

	mass := j.M_jointMass
	if mass <= 0.0 && j.M_bodyB != nil {
		mass = j.M_bodyB.M_mass
	}
	if mass <= 0.0 {
		mass = 1.0
	}

	omega := 2.0 * Pi * frequency
	d := 2.0 * mass * j.M_dampingRatio * omega
	k := mass * omega * omega

	denom := (d + h*k) * h
	Assert(denom > Epsilon)

	j.M_gamma = 1.0 / denom
	j.M_beta = h * k / (d + h*k)
}

func (j *Joint) GetBeta() float64 {
	return j.M_beta
}

func (j *Joint) GetGamma() float64 {
	return j.M_gamma
}
