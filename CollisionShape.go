package impulse2d

var ShapeType = struct {
	E_circle  uint8
	E_polygon uint8
}{
	E_circle:  0,
	E_polygon: 1,
}

/// This holds the mass data computed for a shape.
type MassData struct {
	/// The mass of the shape, usually in kilograms.
	Mass float64

	/// The position of the shape's centroid relative to the shape's origin.
	Center Vec2

	/// The rotational inertia of the shape about the body origin.
	I float64
}

/// A shape is used for collision detection. Shapes are immutable once
/// attached to a body.
type Shape interface {
	Clone() Shape

	/// Get the type of this shape.
	GetType() uint8

	/// Given a transform, compute the associated axis aligned bounding box
	/// for this shape.
	ComputeAABB(xf Transform) AABB

	/// Compute the mass properties of this shape using its dimensions and
	/// density. The inertia tensor is computed about the body origin.
	ComputeMass(density float64) MassData
}

///////////////////////////////////////////////////////////////////////////////
// Circle
///////////////////////////////////////////////////////////////////////////////

/// A circle shape.
type CircleShape struct {
	/// Position of the circle center relative to the body origin.
	P Vec2

	Radius float64
}

func MakeCircleShape(radius float64) CircleShape {
	return CircleShape{
		P:      MakeVec2(0.0, 0.0),
		Radius: radius,
	}
}

func NewCircleShape(radius float64) *CircleShape {
	res := MakeCircleShape(radius)
	return &res
}

func (shape CircleShape) Clone() Shape {
	clone := shape
	return &clone
}

func (shape CircleShape) GetType() uint8 {
	return ShapeType.E_circle
}

func (shape CircleShape) ComputeAABB(xf Transform) AABB {
	p := TransformVec2Mul(xf, shape.P)
	r := MakeVec2(shape.Radius, shape.Radius)

	return MakeAABBFromBounds(Vec2Sub(p, r), Vec2Add(p, r))
}

func (shape CircleShape) ComputeMass(density float64) MassData {
	massData := MassData{}
	massData.Mass = density * Pi * shape.Radius * shape.Radius
	massData.Center = shape.P

	// Inertia about the body origin.
	massData.I = massData.Mass * (0.5*shape.Radius*shape.Radius + Vec2Dot(shape.P, shape.P))

	return massData
}

///////////////////////////////////////////////////////////////////////////////
// Polygon
///////////////////////////////////////////////////////////////////////////////

/// A convex polygon. Vertices are in counter-clockwise order about the
/// body origin.
type PolygonShape struct {
	Centroid Vec2
	Vertices [MaxPolygonVertices]Vec2
	Normals  [MaxPolygonVertices]Vec2
	Count    int
}

func MakePolygonShape() PolygonShape {
	return PolygonShape{}
}

func NewPolygonShape() *PolygonShape {
	res := MakePolygonShape()
	return &res
}

func (shape PolygonShape) Clone() Shape {
	clone := shape
	return &clone
}

func (shape PolygonShape) GetType() uint8 {
	return ShapeType.E_polygon
}

/// Build vertices to represent an axis-aligned box centered on the body
/// origin.
func (shape *PolygonShape) SetAsBox(hx, hy float64) {
	shape.Count = 4
	shape.Vertices[0].Set(-hx, -hy)
	shape.Vertices[1].Set(hx, -hy)
	shape.Vertices[2].Set(hx, hy)
	shape.Vertices[3].Set(-hx, hy)
	shape.Normals[0].Set(0.0, -1.0)
	shape.Normals[1].Set(1.0, 0.0)
	shape.Normals[2].Set(0.0, 1.0)
	shape.Normals[3].Set(-1.0, 0.0)
	shape.Centroid.SetZero()
}

/// Create a convex polygon from the given vertex array. The vertices must
/// be in counter-clockwise winding and form a convex polygon.
func (shape *PolygonShape) Set(vertices []Vec2) {
	Assert(3 <= len(vertices) && len(vertices) <= MaxPolygonVertices)

	n := MinInt(len(vertices), MaxPolygonVertices)
	shape.Count = n

	for i := 0; i < n; i++ {
		shape.Vertices[i] = vertices[i]
	}

	// Compute edge normals.
	for i := 0; i < n; i++ {
		i1 := i
		i2 := 0
		if i+1 < n {
			i2 = i + 1
		}

		edge := Vec2Sub(shape.Vertices[i2], shape.Vertices[i1])
		Assert(edge.LengthSquared() > Epsilon)

		normal := Vec2CrossVectorScalar(edge, 1.0)
		normal.Normalize()
		shape.Normals[i] = normal
	}

	shape.Centroid = computeCentroid(shape.Vertices[:n])
}

func computeCentroid(vs []Vec2) Vec2 {
	n := len(vs)
	c := MakeVec2(0.0, 0.0)
	area := 0.0

	pRef := vs[0]
	inv3 := 1.0 / 3.0

	for i := 0; i < n; i++ {
		p1 := pRef
		p2 := vs[i]
		p3 := vs[0]
		if i+1 < n {
			p3 = vs[i+1]
		}

		e1 := Vec2Sub(p2, p1)
		e2 := Vec2Sub(p3, p1)

		triangleArea := 0.5 * Vec2Cross(e1, e2)
		area += triangleArea

		// Area weighted centroid
		c.OperatorPlusInplace(Vec2MulScalar(triangleArea*inv3, Vec2Add(Vec2Add(p1, p2), p3)))
	}

	Assert(area > Epsilon)
	c.OperatorScalarMulInplace(1.0 / area)

	return c
}

func (shape PolygonShape) ComputeAABB(xf Transform) AABB {
	lower := TransformVec2Mul(xf, shape.Vertices[0])
	upper := lower

	for i := 1; i < shape.Count; i++ {
		v := TransformVec2Mul(xf, shape.Vertices[i])
		lower = Vec2Min(lower, v)
		upper = Vec2Max(upper, v)
	}

	return MakeAABBFromBounds(lower, upper)
}

func (shape PolygonShape) ComputeMass(density float64) MassData {
	// Polygon mass, centroid, and inertia.
	// Let rho be the polygon density in mass per unit area.
	// Then:
	// mass = rho * int(dA)
	// centroid.x = (1/mass) * rho * int(x * dA)
	// centroid.y = (1/mass) * rho * int(y * dA)
	// I = rho * int((x*x + y*y) * dA)
	//
	// We can compute these integrals by summing all the integrals
	// for each triangle of the polygon.

	Assert(shape.Count >= 3)

	center := MakeVec2(0.0, 0.0)
	area := 0.0
	I := 0.0

	// s is the reference point for forming triangles.
	s := shape.Vertices[0]

	inv3 := 1.0 / 3.0

	for i := 0; i < shape.Count; i++ {
		// Triangle vertices.
		e1 := Vec2Sub(shape.Vertices[i], s)
		var e2 Vec2
		if i+1 < shape.Count {
			e2 = Vec2Sub(shape.Vertices[i+1], s)
		} else {
			e2 = Vec2Sub(shape.Vertices[0], s)
		}

		D := Vec2Cross(e1, e2)

		triangleArea := 0.5 * D
		area += triangleArea

		// Area weighted centroid
		center.OperatorPlusInplace(Vec2MulScalar(triangleArea*inv3, Vec2Add(e1, e2)))

		ex1, ey1 := e1.X, e1.Y
		ex2, ey2 := e2.X, e2.Y

		intx2 := ex1*ex1 + ex2*ex1 + ex2*ex2
		inty2 := ey1*ey1 + ey2*ey1 + ey2*ey2

		I += (0.25 * inv3 * D) * (intx2 + inty2)
	}

	massData := MassData{}
	massData.Mass = density * area

	Assert(area > Epsilon)
	center.OperatorScalarMulInplace(1.0 / area)
	massData.Center = Vec2Add(center, s)

	// Inertia tensor relative to the reference point s, then shifted
	// to the body origin.
	massData.I = density * I
	massData.I += massData.Mass * (Vec2Dot(massData.Center, massData.Center) - Vec2Dot(center, center))

	return massData
}
