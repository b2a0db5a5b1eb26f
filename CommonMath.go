package impulse2d

import (
	"math"
)

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func IsValidFloat(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func FloatClamp(a, low, high float64) float64 {
	return math.Max(low, math.Min(a, high))
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	}

	return a
}

///////////////////////////////////////////////////////////////////////////////
/// A 2D column vector.
///////////////////////////////////////////////////////////////////////////////
type Vec2 struct {
	X, Y float64
}

func MakeVec2(xIn, yIn float64) Vec2 {
	return Vec2{
		X: xIn,
		Y: yIn,
	}
}

/// Construct using coordinates.
func NewVec2(xIn, yIn float64) *Vec2 {
	res := MakeVec2(xIn, yIn)
	return &res
}

/// Set this vector to all zeros.
func (v *Vec2) SetZero() {
	v.X = 0.0
	v.Y = 0.0
}

/// Set this vector to some specified coordinates.
func (v *Vec2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

/// Negate this vector.
func (v Vec2) OperatorNegate() Vec2 {
	return MakeVec2(
		-v.X,
		-v.Y,
	)
}

/// Add a vector to this vector.
func (v *Vec2) OperatorPlusInplace(other Vec2) {
	v.X += other.X
	v.Y += other.Y
}

/// Subtract a vector from this vector.
func (v *Vec2) OperatorMinusInplace(other Vec2) {
	v.X -= other.X
	v.Y -= other.Y
}

/// Multiply this vector by a scalar.
func (v *Vec2) OperatorScalarMulInplace(a float64) {
	v.X *= a
	v.Y *= a
}

/// Get the length of this vector (the norm).
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

/// Get the length squared. For performance, use this instead of
/// Vec2.Length (if possible).
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

/// Convert this vector into a unit vector. Returns the length.
func (v *Vec2) Normalize() float64 {
	length := v.Length()

	if length < Epsilon {
		return 0.0
	}

	invLength := 1.0 / length
	v.X *= invLength
	v.Y *= invLength

	return length
}

/// Does this vector contain finite coordinates?
func (v Vec2) IsValid() bool {
	return IsValidFloat(v.X) && IsValidFloat(v.Y)
}

/// Get the skew vector such that dot(skew_vec, other) == cross(vec, other)
func (v Vec2) Skew() Vec2 {
	return MakeVec2(-v.Y, v.X)
}

func (v Vec2) Clone() Vec2 {
	return MakeVec2(v.X, v.Y)
}

func Vec2Add(a, b Vec2) Vec2 {
	return MakeVec2(a.X+b.X, a.Y+b.Y)
}

func Vec2Sub(a, b Vec2) Vec2 {
	return MakeVec2(a.X-b.X, a.Y-b.Y)
}

func Vec2MulScalar(s float64, v Vec2) Vec2 {
	return MakeVec2(s*v.X, s*v.Y)
}

/// Perform the dot product on two vectors.
func Vec2Dot(a, b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

/// Perform the cross product on two vectors. In 2D this produces a scalar.
func Vec2Cross(a, b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

/// Perform the cross product on a scalar and a vector. In 2D this produces
/// a vector.
func Vec2CrossScalarVector(s float64, v Vec2) Vec2 {
	return MakeVec2(-s*v.Y, s*v.X)
}

/// Perform the cross product on a vector and a scalar. In 2D this produces
/// a vector.
func Vec2CrossVectorScalar(v Vec2, s float64) Vec2 {
	return MakeVec2(s*v.Y, -s*v.X)
}

func Vec2Min(a, b Vec2) Vec2 {
	return MakeVec2(math.Min(a.X, b.X), math.Min(a.Y, b.Y))
}

func Vec2Max(a, b Vec2) Vec2 {
	return MakeVec2(math.Max(a.X, b.X), math.Max(a.Y, b.Y))
}

func Vec2Abs(v Vec2) Vec2 {
	return MakeVec2(math.Abs(v.X), math.Abs(v.Y))
}

func Vec2Distance(a, b Vec2) float64 {
	return Vec2Sub(a, b).Length()
}

///////////////////////////////////////////////////////////////////////////////
/// A 2D column vector with 3 elements.
///////////////////////////////////////////////////////////////////////////////
type Vec3 struct {
	X, Y, Z float64
}

/// Construct using coordinates.
func MakeVec3(xIn, yIn, zIn float64) Vec3 {
	return Vec3{
		X: xIn,
		Y: yIn,
		Z: zIn,
	}
}

/// Set this vector to all zeros.
func (v *Vec3) SetZero() {
	v.X = 0.0
	v.Y = 0.0
	v.Z = 0.0
}

/// Negate this vector.
func (v Vec3) OperatorNegate() Vec3 {
	return MakeVec3(
		-v.X,
		-v.Y,
		-v.Z,
	)
}

/// Add a vector to this vector.
func (v *Vec3) OperatorPlusInplace(other Vec3) {
	v.X += other.X
	v.Y += other.Y
	v.Z += other.Z
}

func Vec3Add(a, b Vec3) Vec3 {
	return MakeVec3(a.X+b.X, a.Y+b.Y, a.Z+b.Z)
}

func Vec3MulScalar(s float64, v Vec3) Vec3 {
	return MakeVec3(s*v.X, s*v.Y, s*v.Z)
}

func Vec3Dot(a, b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func Vec3Cross(a, b Vec3) Vec3 {
	return MakeVec3(
		a.Y*b.Z-a.Z*b.Y,
		a.Z*b.X-a.X*b.Z,
		a.X*b.Y-a.Y*b.X,
	)
}

///////////////////////////////////////////////////////////////////////////////
/// A 2-by-2 matrix. Stored in column-major order.
///////////////////////////////////////////////////////////////////////////////
type Mat22 struct {
	Ex, Ey Vec2
}

/// The default constructor does nothing.
func MakeMat22() Mat22 {
	return Mat22{}
}

/// Construct this matrix using columns.
func MakeMat22FromColumns(c1, c2 Vec2) Mat22 {
	return Mat22{
		Ex: c1,
		Ey: c2,
	}
}

/// Construct this matrix using scalars.
func MakeMat22FromScalars(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: MakeVec2(a11, a21),
		Ey: MakeVec2(a12, a22),
	}
}

/// Set this to the identity matrix.
func (m *Mat22) SetIdentity() {
	m.Ex.X = 1.0
	m.Ey.X = 0.0
	m.Ex.Y = 0.0
	m.Ey.Y = 1.0
}

/// Set this matrix to all zeros.
func (m *Mat22) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
}

func (m Mat22) GetInverse() Mat22 {
	a := m.Ex.X
	b := m.Ey.X
	c := m.Ex.Y
	d := m.Ey.Y

	B := MakeMat22()

	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}

	B.Ex.X = det * d
	B.Ey.X = -det * b
	B.Ex.Y = -det * c
	B.Ey.Y = det * a

	return B
}

/// Solve A * x = b, where b is a column vector. This is more efficient
/// than computing the inverse in one-shot cases.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11 := m.Ex.X
	a12 := m.Ey.X
	a21 := m.Ex.Y
	a22 := m.Ey.Y
	det := a11*a22 - a12*a21

	if det != 0.0 {
		det = 1.0 / det
	}

	return MakeVec2(
		det*(a22*b.X-a12*b.Y),
		det*(a11*b.Y-a21*b.X),
	)
}

/// Multiply a matrix times a vector. If a rotation matrix is provided,
/// then this transforms the vector from one frame to another.
func Vec2Mat22Mul(A Mat22, v Vec2) Vec2 {
	return MakeVec2(
		A.Ex.X*v.X+A.Ey.X*v.Y,
		A.Ex.Y*v.X+A.Ey.Y*v.Y,
	)
}

///////////////////////////////////////////////////////////////////////////////
/// A 3-by-3 matrix. Stored in column-major order.
///////////////////////////////////////////////////////////////////////////////
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

/// The default constructor does nothing (for performance).
func MakeMat33() Mat33 {
	return Mat33{}
}

/// Construct this matrix using columns.
func MakeMat33FromColumns(c1, c2, c3 Vec3) Mat33 {
	return Mat33{
		Ex: c1,
		Ey: c2,
		Ez: c3,
	}
}

/// Set this matrix to all zeros.
func (m *Mat33) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
	m.Ez.SetZero()
}

/// Solve A * x = b, where b is a column vector. This is more efficient
/// than computing the inverse in one-shot cases.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := Vec3Dot(m.Ex, Vec3Cross(m.Ey, m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	return MakeVec3(
		det*Vec3Dot(b, Vec3Cross(m.Ey, m.Ez)),
		det*Vec3Dot(m.Ex, Vec3Cross(b, m.Ez)),
		det*Vec3Dot(m.Ex, Vec3Cross(m.Ey, b)),
	)
}

func Vec3Mat33Mul(A Mat33, v Vec3) Vec3 {
	return Vec3Add(
		Vec3Add(Vec3MulScalar(v.X, A.Ex), Vec3MulScalar(v.Y, A.Ey)),
		Vec3MulScalar(v.Z, A.Ez),
	)
}

///////////////////////////////////////////////////////////////////////////////
/// Rotation
///////////////////////////////////////////////////////////////////////////////
type Rot struct {
	/// Sine and cosine
	S, C float64
}

func MakeRot() Rot {
	return Rot{}
}

/// Initialize from an angle in radians
func MakeRotFromAngle(anglerad float64) Rot {
	return Rot{
		S: math.Sin(anglerad),
		C: math.Cos(anglerad),
	}
}

/// Set using an angle in radians.
func (r *Rot) Set(anglerad float64) {
	r.S = math.Sin(anglerad)
	r.C = math.Cos(anglerad)
}

/// Set to the identity rotation
func (r *Rot) SetIdentity() {
	r.S = 0.0
	r.C = 1.0
}

/// Get the angle in radians
func (r Rot) GetAngle() float64 {
	return math.Atan2(r.S, r.C)
}

/// Get the x-axis
func (r Rot) GetXAxis() Vec2 {
	return MakeVec2(r.C, r.S)
}

/// Get the y-axis
func (r Rot) GetYAxis() Vec2 {
	return MakeVec2(-r.S, r.C)
}

/// Rotate a vector
func RotVec2Mul(q Rot, v Vec2) Vec2 {
	return MakeVec2(
		q.C*v.X-q.S*v.Y,
		q.S*v.X+q.C*v.Y,
	)
}

/// Inverse rotate a vector
func RotVec2MulT(q Rot, v Vec2) Vec2 {
	return MakeVec2(
		q.C*v.X+q.S*v.Y,
		-q.S*v.X+q.C*v.Y,
	)
}

///////////////////////////////////////////////////////////////////////////////
/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
///////////////////////////////////////////////////////////////////////////////
type Transform struct {
	P Vec2
	Q Rot
}

/// The default constructor does nothing.
func MakeTransform() Transform {
	return Transform{}
}

/// Initialize using a position vector and a rotation.
func MakeTransformByPositionAndAngle(position Vec2, anglerad float64) Transform {
	return Transform{
		P: position,
		Q: MakeRotFromAngle(anglerad),
	}
}

/// Set this to the identity transform.
func (t *Transform) SetIdentity() {
	t.P.SetZero()
	t.Q.SetIdentity()
}

func TransformVec2Mul(t Transform, v Vec2) Vec2 {
	return MakeVec2(
		t.Q.C*v.X-t.Q.S*v.Y+t.P.X,
		t.Q.S*v.X+t.Q.C*v.Y+t.P.Y,
	)
}

func TransformVec2MulT(t Transform, v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y

	return MakeVec2(
		t.Q.C*px+t.Q.S*py,
		-t.Q.S*px+t.Q.C*py,
	)
}
