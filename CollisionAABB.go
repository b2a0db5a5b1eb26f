package impulse2d

/// An axis aligned bounding box. The invariant LowerBound <= UpperBound
/// holds per axis; Fix restores it on arbitrary user input.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

func MakeAABB() AABB {
	return AABB{}
}

func NewAABB() *AABB {
	res := MakeAABB()
	return &res
}

func MakeAABBFromBounds(lower, upper Vec2) AABB {
	return AABB{
		LowerBound: lower,
		UpperBound: upper,
	}
}

/// Swap the bounds per axis where they are inverted.
func (bb *AABB) Fix() {
	lower := Vec2Min(bb.LowerBound, bb.UpperBound)
	upper := Vec2Max(bb.LowerBound, bb.UpperBound)
	bb.LowerBound = lower
	bb.UpperBound = upper
}

/// Verify that the bounds are sorted and finite.
func (bb AABB) IsValid() bool {
	d := Vec2Sub(bb.UpperBound, bb.LowerBound)
	valid := d.X >= 0.0 && d.Y >= 0.0
	return valid && bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
}

/// Get the center of the AABB.
func (bb AABB) GetCenter() Vec2 {
	return Vec2MulScalar(0.5, Vec2Add(bb.LowerBound, bb.UpperBound))
}

/// Get the extents of the AABB (half-widths).
func (bb AABB) GetExtents() Vec2 {
	return Vec2MulScalar(0.5, Vec2Sub(bb.UpperBound, bb.LowerBound))
}

/// Get the area. This is the surface-area-heuristic cost metric in 2D.
func (bb AABB) GetArea() float64 {
	return (bb.UpperBound.X - bb.LowerBound.X) * (bb.UpperBound.Y - bb.LowerBound.Y)
}

/// Get the perimeter length.
func (bb AABB) GetPerimeter() float64 {
	wx := bb.UpperBound.X - bb.LowerBound.X
	wy := bb.UpperBound.Y - bb.LowerBound.Y
	return 2.0 * (wx + wy)
}

/// Combine an AABB into this one.
func (bb *AABB) CombineInPlace(other AABB) {
	bb.LowerBound = Vec2Min(bb.LowerBound, other.LowerBound)
	bb.UpperBound = Vec2Max(bb.UpperBound, other.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *AABB) CombineTwoInPlace(aabb1, aabb2 AABB) {
	bb.LowerBound = Vec2Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = Vec2Max(aabb1.UpperBound, aabb2.UpperBound)
}

/// The smallest AABB containing both inputs.
func AABBUnion(a, b AABB) AABB {
	return AABB{
		LowerBound: Vec2Min(a.LowerBound, b.LowerBound),
		UpperBound: Vec2Max(a.UpperBound, b.UpperBound),
	}
}

/// Does this AABB contain the provided AABB?
func (bb AABB) Contains(aabb AABB) bool {
	result := true
	result = result && bb.LowerBound.X <= aabb.LowerBound.X
	result = result && bb.LowerBound.Y <= aabb.LowerBound.Y
	result = result && aabb.UpperBound.X <= bb.UpperBound.X
	result = result && aabb.UpperBound.Y <= bb.UpperBound.Y
	return result
}

func (bb AABB) ContainsPoint(p Vec2) bool {
	return bb.LowerBound.X <= p.X && p.X <= bb.UpperBound.X &&
		bb.LowerBound.Y <= p.Y && p.Y <= bb.UpperBound.Y
}

/// Return a copy enlarged by margin on every side.
func (bb AABB) Extended(margin float64) AABB {
	r := MakeVec2(margin, margin)
	return AABB{
		LowerBound: Vec2Sub(bb.LowerBound, r),
		UpperBound: Vec2Add(bb.UpperBound, r),
	}
}

func (bb AABB) Clone() AABB {
	return MakeAABBFromBounds(bb.LowerBound, bb.UpperBound)
}

func TestOverlapAABB(a, b AABB) bool {
	d1 := Vec2Sub(b.LowerBound, a.UpperBound)
	d2 := Vec2Sub(a.LowerBound, b.UpperBound)

	if d1.X > 0.0 || d1.Y > 0.0 {
		return false
	}

	if d2.X > 0.0 || d2.Y > 0.0 {
		return false
	}

	return true
}
