package voxelcore

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultBS is a reasonable voxel scale when a caller has no other
// convention to follow. BS is not a package constant: it belongs to the
// world a given SweptCollider is wired to.
const DefaultBS float32 = 10.0

// Vec3i is an integer voxel coordinate.
type Vec3i struct {
	X, Y, Z int16
}

func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// AABB is an axis-aligned bounding box in world units. Min <= Max per axis
// is the caller's responsibility.
type AABB struct {
	Min, Max mgl32.Vec3
}

func (b AABB) Translate(d mgl32.Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Intersects loosens o's bounds outward by slack on each side before
// testing overlap on every axis.
func (b AABB) Intersects(o AABB, slack float32) bool {
	return b.Max.X()+slack > o.Min.X() && b.Min.X()-slack < o.Max.X() &&
		b.Max.Y()+slack > o.Min.Y() && b.Min.Y()-slack < o.Max.Y() &&
		b.Max.Z()+slack > o.Min.Z() && b.Min.Z()-slack < o.Max.Z()
}

// FootprintIntersects is Intersects restricted to the X-Z plane.
func (b AABB) FootprintIntersects(o AABB, slack float32) bool {
	return b.Max.X()+slack > o.Min.X() && b.Min.X()-slack < o.Max.X() &&
		b.Max.Z()+slack > o.Min.Z() && b.Min.Z()-slack < o.Max.Z()
}

// FloatToInt rounds a world position to the voxel index that contains it:
// floor(p/bs + 0.5) componentwise.
func FloatToInt(p mgl32.Vec3, bs float32) Vec3i {
	return Vec3i{
		X: int16(math.Floor(float64(p.X()/bs + 0.5))),
		Y: int16(math.Floor(float64(p.Y()/bs + 0.5))),
		Z: int16(math.Floor(float64(p.Z()/bs + 0.5))),
	}
}

// NodeBoxAt returns the world-space AABB of voxel i: min = i*bs - bs/2,
// max = i*bs + bs/2.
func NodeBoxAt(i Vec3i, bs float32) AABB {
	center := mgl32.Vec3{float32(i.X) * bs, float32(i.Y) * bs, float32(i.Z) * bs}
	half := mgl32.Vec3{bs / 2, bs / 2, bs / 2}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func minVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{minF32(a[0], b[0]), minF32(a[1], b[1]), minF32(a[2], b[2])}
}

func maxVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{maxF32(a[0], b[0]), maxF32(a[1], b[1]), maxF32(a[2], b[2])}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func absF32(a float32) float32 {
	if a < 0 {
		return -a
	}
	return a
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
