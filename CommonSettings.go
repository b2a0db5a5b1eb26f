package impulse2d

import "math"

const DEBUG = false

func Assert(a bool) {
	if !a {
		panic("Assert")
	}
}

const MaxFloat = math.MaxFloat64
const Epsilon = math.SmallestNonzeroFloat64
const Pi = math.Pi

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.

// Collision

/// The maximum number of contact points between two convex shapes. Do
/// not change this value.
const MaxManifoldPoints = 2

/// The maximum number of vertices on a convex polygon.
const MaxPolygonVertices = 8

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
/// This is in meters. Static proxies are not fattened.
const DefaultAABBMargin = 0.05

/// A small length used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const DefaultLinearSlop = 0.005

/// A velocity threshold for elastic collisions. Any collision with a relative
/// normal velocity below this threshold is treated as inelastic.
const DefaultRestitutionSlop = 0.005

// Dynamics

/// This scale factor controls how fast position error is bled off by rigid
/// joints. Ideally this would be 1 so that error is removed in one time step.
/// However using values close to 1 often lead to overshoot.
const JointBaumgarte = 0.2

/// Joint frequencies below this are clamped up to keep the spring
/// parameterization well conditioned.
const MinJointFrequency = 0.01

const DefaultFixedDeltaTime = 1.0 / 60.0
const DefaultVelocityIterations = 10
