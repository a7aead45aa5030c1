package game

import "math/rand"

// CityLayout tunes GenerateCity.
type CityLayout struct {
	GridSize        int
	BlockSize       float64
	BuildingDensity float64
	RoadWidth       float64
	ClearRadius     float64
}

// DefaultCityLayout returns the standard downtown grid.
func DefaultCityLayout() CityLayout {
	return CityLayout{
		GridSize:        CityGridSize,
		BlockSize:       CityBlockSize,
		BuildingDensity: CityBuildingDensity,
		RoadWidth:       CityRoadWidth,
		ClearRadius:     CityClearRadius,
	}
}

// GenerateCity lays out building footprints on a square grid of blocks
// centered on the origin. Block edges are road corridors, so grid lines stay
// drivable. Blocks near the spawn point or any destination are left empty so
// every target is reachable. Every building sits on a curb plinth, emitted
// before the building itself.
func GenerateCity(rng *rand.Rand, layout CityLayout, destinations []*Destination) []Obstacle {
	keepClear := make([]Vec3, 0, len(destinations)+1)
	keepClear = append(keepClear, Vec3{X: SpawnX, Z: SpawnZ})
	for _, d := range destinations {
		keepClear = append(keepClear, d.Position)
	}

	half := float64(layout.GridSize) * layout.BlockSize / 2
	maxFootprint := layout.BlockSize - layout.RoadWidth - 2*CurbMargin
	if maxFootprint <= 0 {
		return nil
	}
	minFootprint := maxFootprint * 0.5

	var obstacles []Obstacle
	for i := 0; i < layout.GridSize; i++ {
		for j := 0; j < layout.GridSize; j++ {
			if rng.Float64() >= layout.BuildingDensity {
				continue
			}
			center := Vec3{
				X: -half + (float64(i)+0.5)*layout.BlockSize,
				Z: -half + (float64(j)+0.5)*layout.BlockSize,
			}
			if !isFarEnough(center, keepClear, layout.ClearRadius) {
				continue
			}

			width := minFootprint + rng.Float64()*(maxFootprint-minFootprint)
			depth := minFootprint + rng.Float64()*(maxFootprint-minFootprint)
			height := 10 + rng.Float64()*50

			obstacles = append(obstacles,
				Obstacle{
					Kind: ObstacleCurb,
					Box: BoxFromCenterSize(
						Vec3{X: center.X, Y: CurbHeight / 2, Z: center.Z},
						Vec3{X: width + 2*CurbMargin, Y: CurbHeight, Z: depth + 2*CurbMargin},
					),
				},
				Obstacle{
					Kind: ObstacleBuilding,
					Box: BoxFromCenterSize(
						Vec3{X: center.X, Y: height / 2, Z: center.Z},
						Vec3{X: width, Y: height, Z: depth},
					),
				},
			)
		}
	}
	return obstacles
}
