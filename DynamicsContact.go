package impulse2d

import (
	"math"
)

/// Solver state for one contact point: one normal row and one tangent
/// row with accumulated impulses.
type ContactPoint struct {
	M_id uint32

	M_rA Vec2
	M_rB Vec2

	M_penetration float64

	M_normalMass  float64
	M_tangentMass float64

	// Velocity bias combining restitution bounce and penetration
	// correction. Negative values push the bodies apart.
	M_bias float64

	M_normalImpulse  float64
	M_tangentImpulse float64
}

/// A contact constraint generated from a narrow-phase manifold. Contacts
/// are rebuilt every tick; persistence lives in the world's impulse
/// store, keyed by body ids and the point feature ID.
type ContactConstraint struct {
	M_bodyA *Body
	M_bodyB *Body

	M_normal  Vec2
	M_tangent Vec2

	// Mixed material properties: geometric-mean friction, maximum
	// restitution, minimum position-correction factor.
	M_friction    float64
	M_restitution float64
	M_beta        float64

	M_restitutionSlop float64
	M_linearSlop      float64

	M_pointCount int
	M_points     [MaxManifoldPoints]ContactPoint
}

func NewContactConstraint(a, b *Body, manifold *Manifold, restitutionSlop, linearSlop float64) *ContactConstraint {
	c := &ContactConstraint{}
	c.M_bodyA = a
	c.M_bodyB = b
	c.M_normal = manifold.Normal
	c.M_tangent = manifold.Normal.Skew()

	c.M_friction = math.Sqrt(a.M_friction * b.M_friction)
	c.M_restitution = math.Max(a.M_restitution, b.M_restitution)
	c.M_beta = math.Min(a.M_beta, b.M_beta)

	c.M_restitutionSlop = restitutionSlop
	c.M_linearSlop = linearSlop

	c.M_pointCount = manifold.PointCount
	for i := 0; i < manifold.PointCount; i++ {
		mp := manifold.Points[i]
		c.M_points[i] = ContactPoint{
			M_id:          mp.ID,
			M_rA:          Vec2Sub(mp.Point, a.M_position),
			M_rB:          Vec2Sub(mp.Point, b.M_position),
			M_penetration: mp.Penetration,
		}
	}

	return c
}

func (c *ContactConstraint) GetBodyA() *Body {
	return c.M_bodyA
}

func (c *ContactConstraint) GetBodyB() *Body {
	return c.M_bodyB
}

func (c *ContactConstraint) Prepare(data SolverData) {
	bodyA := c.M_bodyA
	bodyB := c.M_bodyB

	mA, mB := bodyA.M_invMass, bodyB.M_invMass
	iA, iB := bodyA.M_invI, bodyB.M_invI

	normal := c.M_normal
	tangent := c.M_tangent

	for i := 0; i < c.M_pointCount; i++ {
		point := &c.M_points[i]

		rnA := Vec2Cross(point.M_rA, normal)
		rnB := Vec2Cross(point.M_rB, normal)
		kNormal := mA + mB + iA*rnA*rnA + iB*rnB*rnB
		if kNormal > 0.0 {
			point.M_normalMass = 1.0 / kNormal
		} else {
			point.M_normalMass = 0.0
		}

		rtA := Vec2Cross(point.M_rA, tangent)
		rtB := Vec2Cross(point.M_rB, tangent)
		kTangent := mA + mB + iA*rtA*rtA + iB*rtB*rtB
		if kTangent > 0.0 {
			point.M_tangentMass = 1.0 / kTangent
		} else {
			point.M_tangentMass = 0.0
		}

		// Relative normal velocity at prepare time. Negative while the
		// bodies approach.
		dv := c.relativeVelocity(point)
		vn := Vec2Dot(dv, normal)

		// The bounce target: restore the approach speed above the slop,
		// scaled by restitution.
		bounce := c.M_restitution * math.Max(-vn-c.M_restitutionSlop, 0.0)

		point.M_bias = -bounce
		if data.PositionCorrection {
			point.M_bias -= c.M_beta * data.InvDt * math.Max(point.M_penetration-c.M_linearSlop, 0.0)
		}

		if data.WarmStarting {
			P := Vec2Add(
				Vec2MulScalar(point.M_normalImpulse, normal),
				Vec2MulScalar(point.M_tangentImpulse, tangent),
			)
			c.applyImpulse(point, P)
		} else {
			point.M_normalImpulse = 0.0
			point.M_tangentImpulse = 0.0
		}
	}
}

func (c *ContactConstraint) Solve() {
	normal := c.M_normal
	tangent := c.M_tangent

	for i := 0; i < c.M_pointCount; i++ {
		point := &c.M_points[i]

		// Solve the tangent row first so the friction cone uses the
		// normal impulse of the previous iteration.
		{
			dv := c.relativeVelocity(point)
			vt := Vec2Dot(dv, tangent)
			lambda := -point.M_tangentMass * vt

			maxFriction := c.M_friction * point.M_normalImpulse
			newImpulse := FloatClamp(point.M_tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - point.M_tangentImpulse
			point.M_tangentImpulse = newImpulse

			c.applyImpulse(point, Vec2MulScalar(lambda, tangent))
		}

		// Normal row. The accumulated impulse stays non-negative.
		{
			dv := c.relativeVelocity(point)
			vn := Vec2Dot(dv, normal)
			lambda := -point.M_normalMass * (vn + point.M_bias)

			newImpulse := math.Max(point.M_normalImpulse+lambda, 0.0)
			lambda = newImpulse - point.M_normalImpulse
			point.M_normalImpulse = newImpulse

			c.applyImpulse(point, Vec2MulScalar(lambda, normal))
		}
	}
}

func (c *ContactConstraint) relativeVelocity(point *ContactPoint) Vec2 {
	bodyA := c.M_bodyA
	bodyB := c.M_bodyB

	vpA := Vec2Add(bodyA.M_linearVelocity, Vec2CrossScalarVector(bodyA.M_angularVelocity, point.M_rA))
	vpB := Vec2Add(bodyB.M_linearVelocity, Vec2CrossScalarVector(bodyB.M_angularVelocity, point.M_rB))

	return Vec2Sub(vpB, vpA)
}

func (c *ContactConstraint) applyImpulse(point *ContactPoint, P Vec2) {
	bodyA := c.M_bodyA
	bodyB := c.M_bodyB

	bodyA.M_linearVelocity.OperatorMinusInplace(Vec2MulScalar(bodyA.M_invMass, P))
	bodyA.M_angularVelocity -= bodyA.M_invI * Vec2Cross(point.M_rA, P)
	bodyB.M_linearVelocity.OperatorPlusInplace(Vec2MulScalar(bodyB.M_invMass, P))
	bodyB.M_angularVelocity += bodyB.M_invI * Vec2Cross(point.M_rB, P)
}
