package impulse2d

import (
	"math"
)

/// A manifold point is a contact point belonging to a contact manifold.
/// The ID identifies the shape features the point was generated from; a
/// point that persists across ticks keeps its ID, which is what lets the
/// solver warm-start it.
type ManifoldPoint struct {
	/// World contact point.
	Point Vec2

	/// Penetration depth along the manifold normal; non-negative.
	Penetration float64

	/// Feature key, stable across ticks while the same features touch.
	ID uint32
}

/// A contact manifold between two bodies. The normal points from body A
/// to body B.
type Manifold struct {
	Normal     Vec2
	PointCount int
	Points     [MaxManifoldPoints]ManifoldPoint
}

/// CollideFunc produces a contact manifold for two bodies, or nil when
/// their shapes do not touch. The world calls this once per broad-phase
/// pair; it is replaceable so an external narrow phase can be plugged in.
type CollideFunc func(a, b *Body) *Manifold

/// Collide dispatches on the two shape types. This is the default narrow
/// phase.
func Collide(a, b *Body) *Manifold {
	typeA := a.M_shape.GetType()
	typeB := b.M_shape.GetType()

	switch {
	case typeA == ShapeType.E_circle && typeB == ShapeType.E_circle:
		return CollideCircles(a, b)
	case typeA == ShapeType.E_polygon && typeB == ShapeType.E_polygon:
		return CollidePolygons(a, b)
	case typeA == ShapeType.E_polygon && typeB == ShapeType.E_circle:
		return CollidePolygonAndCircle(a, b)
	default:
		// Circle vs polygon: collide with the roles swapped, then flip
		// the normal back to point from A to B.
		manifold := CollidePolygonAndCircle(b, a)
		if manifold != nil {
			manifold.Normal = manifold.Normal.OperatorNegate()
		}
		return manifold
	}
}

func CollideCircles(a, b *Body) *Manifold {
	circleA := a.M_shape.(*CircleShape)
	circleB := b.M_shape.(*CircleShape)

	pA := TransformVec2Mul(a.M_xf, circleA.P)
	pB := TransformVec2Mul(b.M_xf, circleB.P)

	d := Vec2Sub(pB, pA)
	distSqr := d.LengthSquared()
	rA := circleA.Radius
	rB := circleB.Radius
	radius := rA + rB

	if distSqr > radius*radius {
		return nil
	}

	dist := math.Sqrt(distSqr)
	normal := MakeVec2(1.0, 0.0)
	if dist > Epsilon {
		normal = Vec2MulScalar(1.0/dist, d)
	}

	surfaceA := Vec2Add(pA, Vec2MulScalar(rA, normal))
	surfaceB := Vec2Sub(pB, Vec2MulScalar(rB, normal))

	manifold := &Manifold{}
	manifold.Normal = normal
	manifold.PointCount = 1
	manifold.Points[0] = ManifoldPoint{
		Point:       Vec2MulScalar(0.5, Vec2Add(surfaceA, surfaceB)),
		Penetration: radius - dist,
		ID:          0,
	}

	return manifold
}

/// Collide a polygon body against a circle body. The manifold normal
/// points from the polygon to the circle.
func CollidePolygonAndCircle(polyBody, circleBody *Body) *Manifold {
	poly := polyBody.M_shape.(*PolygonShape)
	circle := circleBody.M_shape.(*CircleShape)

	// Compute the circle center in the polygon frame.
	cWorld := TransformVec2Mul(circleBody.M_xf, circle.P)
	cLocal := TransformVec2MulT(polyBody.M_xf, cWorld)

	radius := circle.Radius

	// Find the edge with maximum separation.
	separation := -MaxFloat
	normalIndex := 0
	for i := 0; i < poly.Count; i++ {
		s := Vec2Dot(poly.Normals[i], Vec2Sub(cLocal, poly.Vertices[i]))
		if s > radius {
			return nil
		}

		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	i2 := 0
	if normalIndex+1 < poly.Count {
		i2 = normalIndex + 1
	}
	v1 := poly.Vertices[normalIndex]
	v2 := poly.Vertices[i2]

	manifold := &Manifold{}
	manifold.PointCount = 1

	if separation < Epsilon {
		// The center is inside the polygon. Use the deepest face normal.
		normal := RotVec2Mul(polyBody.M_xf.Q, poly.Normals[normalIndex])
		manifold.Normal = normal
		manifold.Points[0] = ManifoldPoint{
			Point:       Vec2Sub(cWorld, Vec2MulScalar(radius, normal)),
			Penetration: radius - separation,
			ID:          uint32(normalIndex),
		}
		return manifold
	}

	// Clamp the center to the face segment.
	u1 := Vec2Dot(Vec2Sub(cLocal, v1), Vec2Sub(v2, v1))
	u2 := Vec2Dot(Vec2Sub(cLocal, v2), Vec2Sub(v1, v2))

	var closest Vec2
	if u1 <= 0.0 {
		closest = v1
	} else if u2 <= 0.0 {
		closest = v2
	} else {
		edge := Vec2Sub(v2, v1)
		closest = Vec2Add(v1, Vec2MulScalar(u1/edge.LengthSquared(), edge))
	}

	d := Vec2Sub(cLocal, closest)
	distSqr := d.LengthSquared()
	if distSqr > radius*radius {
		return nil
	}

	dist := math.Sqrt(distSqr)
	normalLocal := poly.Normals[normalIndex]
	if dist > Epsilon {
		normalLocal = Vec2MulScalar(1.0/dist, d)
	}

	normal := RotVec2Mul(polyBody.M_xf.Q, normalLocal)
	manifold.Normal = normal
	manifold.Points[0] = ManifoldPoint{
		Point:       TransformVec2Mul(polyBody.M_xf, closest),
		Penetration: radius - dist,
		ID:          uint32(normalIndex),
	}

	return manifold
}

// Find the maximum separation of poly1's edge normals against poly2's
// vertices. Both polygons at most MaxPolygonVertices, so the quadratic
// scan is fine.
func findMaxSeparation(poly1 *PolygonShape, xf1 Transform, poly2 *PolygonShape, xf2 Transform) (float64, int) {
	bestSeparation := -MaxFloat
	bestEdge := 0

	for i := 0; i < poly1.Count; i++ {
		n := RotVec2Mul(xf1.Q, poly1.Normals[i])
		v := TransformVec2Mul(xf1, poly1.Vertices[i])

		si := MaxFloat
		for j := 0; j < poly2.Count; j++ {
			v2 := TransformVec2Mul(xf2, poly2.Vertices[j])
			s := Vec2Dot(n, Vec2Sub(v2, v))
			if s < si {
				si = s
			}
		}

		if si > bestSeparation {
			bestSeparation = si
			bestEdge = i
		}
	}

	return bestSeparation, bestEdge
}

type clipVertex struct {
	v  Vec2
	id uint32
}

// Feature key layout: bit 16 = flip, bits 8-15 = reference edge,
// bit 6 = clip-generated, bits 0-5 = incident vertex or clip edge.
func makeContactID(flip uint32, refEdge, incident int) uint32 {
	return flip<<16 | uint32(refEdge)<<8 | uint32(incident)
}

func makeClipContactID(flip uint32, refEdge, clipEdge int) uint32 {
	return flip<<16 | uint32(refEdge)<<8 | 0x40 | uint32(clipEdge)
}

// Sutherland-Hodgman clipping of a segment against the half-plane
// dot(normal, v) - offset <= 0.
func clipSegmentToLine(vOut *[2]clipVertex, vIn [2]clipVertex, normal Vec2, offset float64, flip uint32, refEdge, clipEdge int) int {
	numOut := 0

	distance0 := Vec2Dot(normal, vIn[0].v) - offset
	distance1 := Vec2Dot(normal, vIn[1].v) - offset

	if distance0 <= 0.0 {
		vOut[numOut] = vIn[0]
		numOut++
	}
	if distance1 <= 0.0 {
		vOut[numOut] = vIn[1]
		numOut++
	}

	// The points are on different sides of the plane.
	if distance0*distance1 < 0.0 {
		interp := distance0 / (distance0 - distance1)
		vOut[numOut].v = Vec2Add(vIn[0].v, Vec2MulScalar(interp, Vec2Sub(vIn[1].v, vIn[0].v)))
		vOut[numOut].id = makeClipContactID(flip, refEdge, clipEdge)
		numOut++
	}

	return numOut
}

/// SAT polygon-polygon collision with reference-edge clipping. The
/// manifold normal points from body A to body B.
func CollidePolygons(a, b *Body) *Manifold {
	polyA := a.M_shape.(*PolygonShape)
	polyB := b.M_shape.(*PolygonShape)

	separationA, edgeA := findMaxSeparation(polyA, a.M_xf, polyB, b.M_xf)
	if separationA > 0.0 {
		return nil
	}

	separationB, edgeB := findMaxSeparation(polyB, b.M_xf, polyA, a.M_xf)
	if separationB > 0.0 {
		return nil
	}

	var poly1, poly2 *PolygonShape
	var xf1, xf2 Transform
	var edge1 int
	var flip uint32

	if separationB > separationA+0.1*DefaultLinearSlop {
		poly1, poly2 = polyB, polyA
		xf1, xf2 = b.M_xf, a.M_xf
		edge1 = edgeB
		flip = 1
	} else {
		poly1, poly2 = polyA, polyB
		xf1, xf2 = a.M_xf, b.M_xf
		edge1 = edgeA
		flip = 0
	}

	// Reference edge in world coordinates.
	iv1 := edge1
	iv2 := 0
	if edge1+1 < poly1.Count {
		iv2 = edge1 + 1
	}

	v11 := TransformVec2Mul(xf1, poly1.Vertices[iv1])
	v12 := TransformVec2Mul(xf1, poly1.Vertices[iv2])

	tangent := Vec2Sub(v12, v11)
	tangent.Normalize()

	refNormal := RotVec2Mul(xf1.Q, poly1.Normals[edge1])

	sideOffset1 := -Vec2Dot(tangent, v11)
	sideOffset2 := Vec2Dot(tangent, v12)

	// Incident edge: the edge of poly2 whose normal is most anti-parallel
	// to the reference normal.
	minDot := MaxFloat
	incidentIndex := 0
	for j := 0; j < poly2.Count; j++ {
		d := Vec2Dot(refNormal, RotVec2Mul(xf2.Q, poly2.Normals[j]))
		if d < minDot {
			minDot = d
			incidentIndex = j
		}
	}

	j2 := 0
	if incidentIndex+1 < poly2.Count {
		j2 = incidentIndex + 1
	}

	incidentEdge := [2]clipVertex{
		{TransformVec2Mul(xf2, poly2.Vertices[incidentIndex]), makeContactID(flip, edge1, incidentIndex)},
		{TransformVec2Mul(xf2, poly2.Vertices[j2]), makeContactID(flip, edge1, j2)},
	}

	var clipPoints1, clipPoints2 [2]clipVertex

	np := clipSegmentToLine(&clipPoints1, incidentEdge, tangent.OperatorNegate(), sideOffset1, flip, edge1, 0)
	if np < 2 {
		return nil
	}

	np = clipSegmentToLine(&clipPoints2, clipPoints1, tangent, sideOffset2, flip, edge1, 1)
	if np < 2 {
		return nil
	}

	frontOffset := Vec2Dot(refNormal, v11)

	manifold := &Manifold{}
	if flip == 1 {
		manifold.Normal = refNormal.OperatorNegate()
	} else {
		manifold.Normal = refNormal
	}

	for i := 0; i < 2; i++ {
		separation := Vec2Dot(refNormal, clipPoints2[i].v) - frontOffset
		if separation <= 0.0 {
			manifold.Points[manifold.PointCount] = ManifoldPoint{
				Point:       clipPoints2[i].v,
				Penetration: -separation,
				ID:          clipPoints2[i].id,
			}
			manifold.PointCount++
		}
	}

	if manifold.PointCount == 0 {
		return nil
	}

	return manifold
}
