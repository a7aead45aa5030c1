package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Destination is a delivery target. IsCompleted is the only field that
// changes after the pool is built.
type Destination struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     Vec3   `json:"position"`
	RewardPoints int    `json:"reward_points"`
	IsCompleted  bool   `json:"is_completed"`
}

// NewDestination creates a destination with a fresh ID.
func NewDestination(name string, pos Vec3, reward int) *Destination {
	return &Destination{
		ID:           uuid.New().String(),
		Name:         name,
		Position:     pos,
		RewardPoints: reward,
	}
}

type landmark struct {
	name   string
	x, z   float64
	reward int
}

var landmarkPool = []landmark{
	{"Vidhana Soudha", 100, 100, 500},
	{"Cubbon Park", -150, 50, 300},
	{"UB City", 80, -120, 400},
	{"Bangalore Palace", -100, -100, 450},
	{"MG Road Metro", 0, 150, 350},
}

// LandmarkDestinations returns the fixed pool of named landmark deliveries.
func LandmarkDestinations() []*Destination {
	pool := make([]*Destination, 0, len(landmarkPool))
	for _, l := range landmarkPool {
		pool = append(pool, NewDestination(l.name, Vec3{X: l.x, Z: l.z}, l.reward))
	}
	return pool
}

// ScatterDestinations places count destinations at random inside
// DestinationSpread of the origin, keeping DestinationMinSpacing between
// them and away from the spawn point. Names cycle through the landmark pool.
func ScatterDestinations(rng *rand.Rand, count int) []*Destination {
	pool := make([]*Destination, 0, count)
	placed := []Vec3{{X: SpawnX, Z: SpawnZ}}

	for i := 0; i < count; i++ {
		pos := scatterPosition(rng, placed)
		placed = append(placed, pos)

		l := landmarkPool[i%len(landmarkPool)]
		pool = append(pool, NewDestination(l.name, pos, DefaultReward))
	}
	return pool
}

// scatterPosition finds a random position that respects DestinationMinSpacing
// from all existing positions. Falls back to a random position after maxAttempts.
func scatterPosition(rng *rand.Rand, existing []Vec3) Vec3 {
	const maxAttempts = 100

	for i := 0; i < maxAttempts; i++ {
		pos := randomPosition(rng)
		if isFarEnough(pos, existing, DestinationMinSpacing) {
			return pos
		}
	}
	return randomPosition(rng)
}

func randomPosition(rng *rand.Rand) Vec3 {
	return Vec3{
		X: (rng.Float64()*2 - 1) * DestinationSpread,
		Z: (rng.Float64()*2 - 1) * DestinationSpread,
	}
}

// isFarEnough checks if pos is at least minDist from all existing positions.
func isFarEnough(pos Vec3, existing []Vec3, minDist float64) bool {
	for _, p := range existing {
		if HorizontalDistance(pos, p) < minDist {
			return false
		}
	}
	return true
}
