package voxelcore

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// MoveResult is the flag set produced by one Step or Advance call.
type MoveResult struct {
	TouchingGround     bool
	Collides           bool
	CollidesXZ         bool
	StandingOnUnloaded bool
}

func (r MoveResult) Or(o MoveResult) MoveResult {
	return MoveResult{
		TouchingGround:     r.TouchingGround || o.TouchingGround,
		Collides:           r.Collides || o.Collides,
		CollidesXZ:         r.CollidesXZ || o.CollidesXZ,
		StandingOnUnloaded: r.StandingOnUnloaded || o.StandingOnUnloaded,
	}
}

// NodeBox is a candidate voxel box gathered for one Step call.
type NodeBox struct {
	Box        AABB
	IsUnloaded bool
	IsStepUp   bool
}

// SweptCollider resolves one bounded motion of Box0 against a voxel grid
// reached through Query.
type SweptCollider struct {
	Box0       AABB
	BS         float32
	PosMaxD    float32
	StepHeight float32
	Query      NodeQuery

	logger Logger
}

// NewSweptCollider validates box0 (min <= max on every axis). A nil logger
// is replaced with a no-op sink.
func NewSweptCollider(box0 AABB, bs, posMaxD, stepHeight float32, query NodeQuery, logger Logger) (*SweptCollider, error) {
	if box0.Min[0] > box0.Max[0] || box0.Min[1] > box0.Max[1] || box0.Min[2] > box0.Max[2] {
		return nil, fmt.Errorf("voxelcore: box0 min must be <= max on every axis")
	}
	return &SweptCollider{
		Box0:       box0,
		BS:         bs,
		PosMaxD:    posMaxD,
		StepHeight: stepHeight,
		Query:      query,
		logger:     orNop(logger),
	}, nil
}

// Step applies v <- v + a*dtPart, then advances pos along v, resolving
// collisions against the voxel grid within the swept volume.
func (c *SweptCollider) Step(pos, vel, accel mgl32.Vec3, dtPart float32) (mgl32.Vec3, mgl32.Vec3, MoveResult) {
	v := vel.Add(accel.Mul(dtPart))
	candidates := c.gatherCandidates(pos, v, dtPart)

	d := c.PosMaxD * 1.1
	eps := c.BS * 1e-10

	var result MoveResult
	dt := dtPart
	iterations := 0
	warned := false

	for dt > eps {
		iterations++
		if iterations > 100 {
			if !warned {
				c.logger.Warnf("swept collider exceeded 100 iterations in one Step, forcing dt to 0")
				warned = true
			}
			break
		}

		pos0 := pos
		sort.SliceStable(candidates, func(i, j int) bool {
			return manhattanDist(candidates[i].Box, pos0) < manhattanDist(candidates[j].Box, pos0)
		})

		movingBox := c.Box0.Translate(pos)

		hitIdx := -1
		hitAxis := -1
		var hitT float32
		for idx := range candidates {
			if candidates[idx].IsStepUp {
				continue
			}
			axis, t := axisAlignedCollision(candidates[idx].Box, movingBox, v, d)
			if axis != -1 && t <= dt {
				hitIdx = idx
				hitAxis = axis
				hitT = t
				break
			}
		}

		if hitIdx == -1 {
			pos = pos.Add(v.Mul(dt))
			break
		}

		hit := &candidates[hitIdx]
		stepUp := hitAxis != 1 && movingBox.Min[1]+c.StepHeight > hit.Box.Max[1]
		if stepUp {
			hit.IsStepUp = true
			continue
		}

		if hitT < 0 {
			pos[hitAxis] += v[hitAxis] * hitT
		} else {
			pos = pos.Add(v.Mul(hitT))
			dt -= hitT
		}

		v[hitAxis] = 0
		result.Collides = true
		if hitAxis == 0 || hitAxis == 2 {
			result.CollidesXZ = true
		}
	}

	ground, finalPos := c.groundContactPass(candidates, c.Box0.Translate(pos), pos, d)
	pos = finalPos
	result.TouchingGround = ground.TouchingGround
	result.StandingOnUnloaded = ground.StandingOnUnloaded

	return pos, v, result
}

// gatherCandidates queries every voxel in the integer AABB enclosing the
// pre-move and projected post-move box, expanded by one voxel per side.
func (c *SweptCollider) gatherCandidates(pos, v mgl32.Vec3, dtPart float32) []NodeBox {
	preBox := c.Box0.Translate(pos)
	postBox := c.Box0.Translate(pos.Add(v.Mul(dtPart)))

	lo := minVec3(preBox.Min, postBox.Min)
	hi := maxVec3(preBox.Max, postBox.Max)

	minIdx := FloatToInt(lo, c.BS)
	maxIdx := FloatToInt(hi, c.BS)
	minIdx = Vec3i{minIdx.X - 1, minIdx.Y - 1, minIdx.Z - 1}
	maxIdx = Vec3i{maxIdx.X + 1, maxIdx.Y + 1, maxIdx.Z + 1}

	var out []NodeBox
	for x := minIdx.X; x <= maxIdx.X; x++ {
		for y := minIdx.Y; y <= maxIdx.Y; y++ {
			for z := minIdx.Z; z <= maxIdx.Z; z++ {
				probe := c.Query.Probe(Vec3i{X: x, Y: y, Z: z})
				switch probe.Kind {
				case ProbeWalkable:
					out = append(out, NodeBox{Box: probe.Box})
				case ProbeUnloaded:
					out = append(out, NodeBox{Box: probe.Box, IsUnloaded: true})
				}
			}
		}
	}
	return out
}

// groundContactPass tests footprint overlap plus near-zero vertical gap.
// A candidate still marked IsStepUp is tested as if pos had already been
// raised onto it.
func (c *SweptCollider) groundContactPass(candidates []NodeBox, movingBox AABB, pos mgl32.Vec3, d float32) (MoveResult, mgl32.Vec3) {
	var result MoveResult
	for i := range candidates {
		cand := &candidates[i]
		box := movingBox
		p := pos
		if cand.IsStepUp {
			raise := cand.Box.Max[1] - box.Min[1]
			p[1] += raise
			box = box.Translate(mgl32.Vec3{0, raise, 0})
		}
		if !box.FootprintIntersects(cand.Box, d) {
			continue
		}
		if absF32(cand.Box.Max[1]-box.Min[1]) >= 0.15*c.BS {
			continue
		}
		result.TouchingGround = true
		if cand.IsUnloaded {
			result.StandingOnUnloaded = true
		}
		pos = p
		movingBox = box
	}
	return result, pos
}

// manhattanDist is the L1 distance from pos to box's closest point.
func manhattanDist(box AABB, pos mgl32.Vec3) float32 {
	var dist float32
	for axis := 0; axis < 3; axis++ {
		lo, hi, p := box.Min[axis], box.Max[axis], pos[axis]
		switch {
		case p < lo:
			dist += lo - p
		case p > hi:
			dist += p - hi
		}
	}
	return dist
}

// axisAlignedCollision transforms static into a unit cube, restates moving
// and v in that frame, and tests each axis in turn (X, Y, Z) for a leading
// face crossing the entering plane. First axis to hit wins.
func axisAlignedCollision(static, moving AABB, v mgl32.Vec3, d float32) (axis int, tHit float32) {
	var mMin, mMax, spd [3]float32
	for k := 0; k < 3; k++ {
		extent := static.Max[k] - static.Min[k]
		if extent <= 0 {
			return -1, 0
		}
		scale := 1 / extent
		off := -static.Min[k]
		mMin[k] = (moving.Min[k] + off) * scale
		mMax[k] = (moving.Max[k] + off) * scale
		spd[k] = v[k] * scale
	}

	perpOverlap := func(t float32, j, k int) bool {
		return mMin[j]+spd[j]*t < 1 && mMax[j]+spd[j]*t > 0 &&
			mMin[k]+spd[k]*t < 1 && mMax[k]+spd[k]*t > 0
	}

	for a := 0; a < 3; a++ {
		j, k := otherAxes(a)
		extent := static.Max[a] - static.Min[a]
		dScaled := d / extent

		if spd[a] > 0 {
			if mMax[a] <= dScaled {
				t := -mMax[a] / spd[a]
				if perpOverlap(t, j, k) {
					return a, t
				}
			}
		} else if spd[a] < 0 {
			if mMin[a] >= 1-dScaled {
				t := (1 - mMin[a]) / spd[a]
				if perpOverlap(t, j, k) {
					return a, t
				}
			}
		}
	}
	return -1, 0
}

func otherAxes(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}
