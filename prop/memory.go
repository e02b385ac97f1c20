package prop

import "github.com/cybergrind/r2save/bio"

// Guid is the engine's 16-byte globally unique identifier, stored as four
// native-endian 32-bit words (not the canonical RFC 4122 byte layout, so it
// is kept as its own type rather than reusing a UUID library).
type Guid struct {
	A, B, C, D uint32
}

// ReadGuid reads a Guid.
func ReadGuid(r *bio.Reader) (Guid, error) {
	var g Guid
	var err error
	if g.A, err = r.U32(); err != nil {
		return g, err
	}
	if g.B, err = r.U32(); err != nil {
		return g, err
	}
	if g.C, err = r.U32(); err != nil {
		return g, err
	}
	if g.D, err = r.U32(); err != nil {
		return g, err
	}
	return g, nil
}

// WriteGuid writes a Guid.
func WriteGuid(w *bio.Writer, g Guid) {
	w.U32(g.A)
	w.U32(g.B)
	w.U32(g.C)
	w.U32(g.D)
}

// Vector is a 3-component double-precision vector, as used by StructProperty
// values of type "Vector".
type Vector struct {
	X, Y, Z float64
}

// ReadVector reads a Vector.
func ReadVector(r *bio.Reader) (Vector, error) {
	var v Vector
	var err error
	if v.X, err = r.F64(); err != nil {
		return v, err
	}
	if v.Y, err = r.F64(); err != nil {
		return v, err
	}
	if v.Z, err = r.F64(); err != nil {
		return v, err
	}
	return v, nil
}

// WriteVector writes a Vector.
func WriteVector(w *bio.Writer, v Vector) {
	w.F64(v.X)
	w.F64(v.Y)
	w.F64(v.Z)
}

// Rotator is a 3-component double-precision pitch/yaw/roll value, as used
// by StructProperty values of type "Rotator".
type Rotator struct {
	Pitch, Yaw, Roll float64
}

// ReadRotator reads a Rotator.
func ReadRotator(r *bio.Reader) (Rotator, error) {
	var v Rotator
	var err error
	if v.Pitch, err = r.F64(); err != nil {
		return v, err
	}
	if v.Yaw, err = r.F64(); err != nil {
		return v, err
	}
	if v.Roll, err = r.F64(); err != nil {
		return v, err
	}
	return v, nil
}

// WriteRotator writes a Rotator.
func WriteRotator(w *bio.Writer, v Rotator) {
	w.F64(v.Pitch)
	w.F64(v.Yaw)
	w.F64(v.Roll)
}

// Quaternion is a 4-component double-precision rotation value, used by
// FTransform.
type Quaternion struct {
	X, Y, Z, W float64
}

// ReadQuaternion reads a Quaternion.
func ReadQuaternion(r *bio.Reader) (Quaternion, error) {
	var q Quaternion
	var err error
	if q.X, err = r.F64(); err != nil {
		return q, err
	}
	if q.Y, err = r.F64(); err != nil {
		return q, err
	}
	if q.Z, err = r.F64(); err != nil {
		return q, err
	}
	if q.W, err = r.F64(); err != nil {
		return q, err
	}
	return q, nil
}

// WriteQuaternion writes a Quaternion.
func WriteQuaternion(w *bio.Writer, q Quaternion) {
	w.F64(q.X)
	w.F64(q.Y)
	w.F64(q.Z)
	w.F64(q.W)
}

// Transform is rotation + position + scale, each a Vector/Quaternion of
// doubles, as embedded in ActorDynamicData.
type Transform struct {
	Rotation Quaternion
	Position Vector
	Scale    Vector
}

// ReadTransform reads a Transform (80 bytes: quaternion + 2 vectors).
func ReadTransform(r *bio.Reader) (Transform, error) {
	var t Transform
	var err error
	if t.Rotation, err = ReadQuaternion(r); err != nil {
		return t, err
	}
	if t.Position, err = ReadVector(r); err != nil {
		return t, err
	}
	if t.Scale, err = ReadVector(r); err != nil {
		return t, err
	}
	return t, nil
}

// WriteTransform writes a Transform.
func WriteTransform(w *bio.Writer, t Transform) {
	WriteQuaternion(w, t.Rotation)
	WriteVector(w, t.Position)
	WriteVector(w, t.Scale)
}

// IdentityTransform is the identity rotation/position/unit-scale transform.
func IdentityTransform() Transform {
	return Transform{
		Rotation: Quaternion{0, 0, 0, 1},
		Position: Vector{0, 0, 0},
		Scale:    Vector{1, 1, 1},
	}
}
