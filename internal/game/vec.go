package game

import "math"

// Vec3 is a point or direction in world space. Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Horizontal returns the vector with its Y component zeroed.
func (a Vec3) Horizontal() Vec3 {
	return Vec3{X: a.X, Z: a.Z}
}

func (a Vec3) Length() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// Normalize returns the unit vector along a. The zero vector normalizes to
// the zero vector.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// HorizontalDistance is the distance between a and b in the XZ plane.
func HorizontalDistance(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxFromCenterSize builds a box around center with the given full size.
func BoxFromCenterSize(center, size Vec3) Box3 {
	half := size.Scale(0.5)
	return Box3{Min: center.Sub(half), Max: center.Add(half)}
}

func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Intersects reports whether the boxes overlap. Touching faces count.
func (b Box3) Intersects(o Box3) bool {
	return !(o.Max.X < b.Min.X || o.Min.X > b.Max.X ||
		o.Max.Y < b.Min.Y || o.Min.Y > b.Max.Y ||
		o.Max.Z < b.Min.Z || o.Min.Z > b.Max.Z)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
