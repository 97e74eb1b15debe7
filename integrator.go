package voxelcore

import "github.com/go-gl/mathgl/mgl32"

// MotionIntegrator wraps a SweptCollider in a sub-timestep loop, so one
// caller-facing Advance(dt) corresponds to several bounded SweptCollider
// steps, each short enough that the collider never has to reason about a
// displacement larger than PosMaxD.
type MotionIntegrator struct {
	Collider *SweptCollider
}

func NewMotionIntegrator(collider *SweptCollider) *MotionIntegrator {
	return &MotionIntegrator{Collider: collider}
}

// Advance clamps dt to 2 seconds, then runs a bounded number of sub-steps
// sized so that |v|*dt_part never exceeds PosMaxD, OR-ing the flags raised
// by each sub-step into the value it returns.
func (m *MotionIntegrator) Advance(pos, vel, accel mgl32.Vec3, dt float32) (mgl32.Vec3, mgl32.Vec3, MoveResult) {
	if dt > 2.0 {
		dt = 2.0
	}

	var result MoveResult
	dtRemain := dt

	for dtRemain > 0.001 {
		speed := vel.Len()
		dtMax := float32(1.0)
		if speed > 0 {
			dtMax = m.Collider.PosMaxD / speed
		}
		if dtMax > 0.01 {
			dtMax = 0.01
		}

		var dtPart float32
		if dtRemain > dtMax {
			dtPart = dtMax
			dtRemain -= dtPart
		} else {
			dtPart = dtRemain
			dtRemain = 0
		}

		var stepResult MoveResult
		pos, vel, stepResult = m.Collider.Step(pos, vel, accel, dtPart)
		result = result.Or(stepResult)
	}

	return pos, vel, result
}
