package game

import "encoding/json"

type ObstacleKind int

const (
	ObstacleBuilding ObstacleKind = iota
	ObstacleCurb
	ObstacleSidewalk
	ObstacleLandmark
)

func (k ObstacleKind) String() string {
	switch k {
	case ObstacleBuilding:
		return "building"
	case ObstacleCurb:
		return "curb"
	case ObstacleSidewalk:
		return "sidewalk"
	case ObstacleLandmark:
		return "landmark"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes ObstacleKind as a string.
func (k ObstacleKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON deserializes ObstacleKind from a string.
func (k *ObstacleKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "curb":
		*k = ObstacleCurb
	case "sidewalk":
		*k = ObstacleSidewalk
	case "landmark":
		*k = ObstacleLandmark
	default:
		*k = ObstacleBuilding
	}
	return nil
}

// Obstacle is a static world-space bounding volume. Obstacles never move
// after the city is generated.
type Obstacle struct {
	Kind ObstacleKind `json:"kind"`
	Box  Box3         `json:"box"`
}

// VehicleBox returns the vehicle's bounding box at ground level.
func VehicleBox(pos Vec3) Box3 {
	return BoxFromCenterSize(
		Vec3{X: pos.X, Y: GroundY, Z: pos.Z},
		Vec3{X: VehicleWidth, Y: VehicleHeight, Z: VehicleLength},
	)
}

// ResolveCollisions pushes the vehicle out of every obstacle it overlaps and
// returns the number of hits.
//
// Hits are resolved one after another in slice order against the box taken
// at the start of the pass. There is no relaxation, so two simultaneous hits
// invert the speed twice. The result depends on obstacle order.
func ResolveCollisions(v *VehicleState, obstacles []Obstacle) int {
	center := Vec3{X: v.Position.X, Y: GroundY, Z: v.Position.Z}
	box := VehicleBox(center)

	hits := 0
	for _, o := range obstacles {
		if !box.Intersects(o.Box) {
			continue
		}
		hits++

		pushBack := center.Sub(o.Box.Center()).Horizontal().Normalize()
		v.Position = v.Position.Add(pushBack.Scale(PushBackStep))
		v.Speed *= -BounceFactor
		v.Acceleration = 0
	}

	v.Position.X, v.Position.Z = ClampToWorld(v.Position.X, v.Position.Z)
	return hits
}

// ClampToWorld keeps a horizontal position inside the world boundary.
func ClampToWorld(x, z float64) (float64, float64) {
	return clamp(x, -WorldBound, WorldBound), clamp(z, -WorldBound, WorldBound)
}

// InDeliveryRange checks if pos is within radius of a destination in the
// horizontal plane.
func InDeliveryRange(pos Vec3, dest *Destination, radius float64) bool {
	if dest == nil {
		return false
	}
	return HorizontalDistance(pos, dest.Position) <= radius
}
