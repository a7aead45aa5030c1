package game

import "math"

// NormalizeToPi wraps an angle in radians into (-Pi, Pi]. Angles already in
// range are returned unchanged.
func NormalizeToPi(a float64) float64 {
	if a > -math.Pi && a <= math.Pi {
		return a
	}
	r := math.Mod(a+math.Pi, 2*math.Pi)
	if r <= 0 {
		r += 2 * math.Pi
	}
	if n := r - math.Pi; n > -math.Pi {
		return n
	}
	return math.Pi
}

var compassLabels = [8]string{
	"NORTH", "NORTHEAST", "EAST", "SOUTHEAST",
	"SOUTH", "SOUTHWEST", "WEST", "NORTHWEST",
}

// CompassLabel buckets a bearing in degrees into one of eight 45 degree
// sectors, each centered on its label. +Z is north and +X is east.
func CompassLabel(degrees float64) string {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	idx := int(math.Floor((d+22.5)/45)) % 8
	return compassLabels[idx]
}

// Urgency is a presentation hint in [UrgencyMin, 1] that grows as the
// target gets closer.
func Urgency(distance float64) float64 {
	return clamp(1-distance/UrgencyMaxDistance, UrgencyMin, 1)
}

// Bearing describes where the current destination lies relative to the
// vehicle.
type Bearing struct {
	Visible         bool    `json:"visible"`
	RelativeRadians float64 `json:"relative_radians"`
	RelativeDegrees float64 `json:"relative_degrees"`
	AbsoluteDegrees float64 `json:"absolute_degrees"`
	Compass         string  `json:"compass"`
	Distance        float64 `json:"distance"`
	Urgency         float64 `json:"urgency"`
}

// ComputeBearing projects target into the vehicle's frame in the horizontal
// plane. A vehicle sitting exactly on the target gets a zero bearing.
func ComputeBearing(pos Vec3, heading float64, target Vec3) Bearing {
	v := target.Sub(pos).Horizontal()
	distance := v.Length()

	absolute := 0.0
	if distance > 0 {
		absolute = math.Atan2(v.X, v.Z)
	}
	relative := NormalizeToPi(absolute - heading)

	absDeg := radToDeg(absolute)
	return Bearing{
		Visible:         true,
		RelativeRadians: relative,
		RelativeDegrees: radToDeg(relative),
		AbsoluteDegrees: absDeg,
		Compass:         CompassLabel(absDeg),
		Distance:        distance,
		Urgency:         Urgency(distance),
	}
}

func radToDeg(r float64) float64 {
	return r * 180 / math.Pi
}

// MinimapConfig describes the radar view.
type MinimapConfig struct {
	Scale       float64            `json:"scale"`
	Radius      float64            `json:"radius"`
	Margin      float64            `json:"margin"`
	EdgeInset   float64            `json:"edge_inset"`
	Orientation MinimapOrientation `json:"orientation"`
}

// DefaultMinimapConfig returns a north-locked minimap.
func DefaultMinimapConfig() MinimapConfig {
	return MinimapConfig{
		Scale:       MinimapScale,
		Radius:      MinimapRadius,
		Margin:      MinimapMargin,
		EdgeInset:   MinimapEdgeInset,
		Orientation: NorthLocked,
	}
}

// MinimapPoint is a target in minimap-local coordinates, relative to the
// minimap center. Targets outside the radius are pinned to the rim.
type MinimapPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	OnEdge bool    `json:"on_edge"`
	Angle  float64 `json:"angle"`
}

// ProjectToMinimap maps a world-space target into minimap coordinates.
func ProjectToMinimap(pos Vec3, heading float64, target Vec3, cfg MinimapConfig) MinimapPoint {
	dx := (target.X - pos.X) * cfg.Scale
	dz := (target.Z - pos.Z) * cfg.Scale

	rot := 0.0
	if cfg.Orientation == HeadingLocked {
		rot = -heading
	}
	cos, sin := math.Cos(rot), math.Sin(rot)
	x := dx*cos - dz*sin
	y := dx*sin + dz*cos

	angle := math.Atan2(y, x)
	if math.Hypot(x, y) < cfg.Radius-cfg.Margin {
		return MinimapPoint{X: x, Y: y, Angle: angle}
	}

	rim := cfg.Radius - cfg.EdgeInset
	return MinimapPoint{
		X:      math.Cos(angle) * rim,
		Y:      math.Sin(angle) * rim,
		OnEdge: true,
		Angle:  angle,
	}
}

// MinimapBlip is a projected destination.
type MinimapBlip struct {
	DestinationID string       `json:"destination_id"`
	Name          string       `json:"name"`
	Current       bool         `json:"current"`
	Point         MinimapPoint `json:"point"`
}

// MinimapView is everything the radar draws in one frame.
type MinimapView struct {
	Orientation MinimapOrientation `json:"orientation"`
	Heading     float64            `json:"heading"`
	Target      *MinimapPoint      `json:"target,omitempty"`
	Landmarks   []MinimapBlip      `json:"landmarks"`
}
