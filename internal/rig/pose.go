package rig

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSensorWidth is the host's default camera sensor width in millimetres.
const DefaultSensorWidth = 36.0

// WorldUp is the vertical axis of the host's coordinate system (Z-up, right-handed).
var WorldUp = mgl64.Vec3{0, 0, 1}

// DefaultForward is used when a camera sits exactly on its target.
var DefaultForward = mgl64.Vec3{0, 0, -1}

// Pose is a camera placement at one moment in time.
type Pose struct {
	Position    mgl64.Vec3
	Forward     mgl64.Vec3 // unit vector, camera -> target
	Rotation    mgl64.Quat // maps the camera's local -Z onto Forward
	FocalLength float64    // millimetres; 0 for orthographic cameras
}

// Evaluator is anything that yields a camera pose for a (possibly fractional) frame.
type Evaluator interface {
	Evaluate(frame float64) Pose
}

// Direction returns the unit vector pointing from one point to another.
func Direction(from, to mgl64.Vec3) mgl64.Vec3 {
	d := to.Sub(from)
	l := d.Len()
	if l == 0 {
		return DefaultForward
	}
	return d.Mul(1 / l)
}

// LookRotation builds the rotation of a camera looking along forward with the
// world Z axis as its up reference. Cameras look down their local -Z axis.
func LookRotation(forward mgl64.Vec3) mgl64.Quat {
	if forward.Len() == 0 {
		return mgl64.QuatIdent()
	}
	f := forward.Normalize()

	up := WorldUp
	if math.Abs(f.Dot(up)) > 1-1e-9 {
		// Looking straight up or down
		up = mgl64.Vec3{0, 1, 0}
	}

	right := f.Cross(up).Normalize()
	camUp := right.Cross(f)

	m := mgl64.Mat3FromCols(right, camUp, f.Mul(-1))
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// LocalForward returns the world direction of a camera's local -Z axis under q.
func LocalForward(q mgl64.Quat) mgl64.Vec3 {
	return q.Rotate(mgl64.Vec3{0, 0, -1})
}

// FieldOfView converts a focal length into a horizontal field of view in radians.
func FieldOfView(focalLength, sensorWidth float64) float64 {
	if focalLength <= 0 {
		return 0
	}
	return 2 * math.Atan(sensorWidth/(2*focalLength))
}

// ToRadians is a helper function to easily convert degrees to radians.
func ToRadians(degrees float64) float64 {
	return math.Pi * degrees / 180
}

// ToDegrees is a helper function to easily convert radians to degrees for human readability.
func ToDegrees(radians float64) float64 {
	return radians / math.Pi * 180
}

// Finite reports whether none of the values is NaN or infinite.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
