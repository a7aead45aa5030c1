package session

import (
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/ugaemi/citycourier-server/internal/config"
	"github.com/ugaemi/citycourier-server/internal/game"
)

// Destination layouts.
const (
	LayoutLandmarks = "landmarks"
	LayoutScatter   = "scatter"
)

// Options configures every session a Manager creates.
type Options struct {
	Game         game.Config
	City         game.CityLayout
	TickInterval time.Duration

	// Seed drives destination scatter and city generation. Zero picks a
	// fresh seed per run.
	Seed             int64
	Layout           string
	DestinationCount int

	// Meter records run metrics. Nil disables them.
	Meter metric.Meter
}

// DefaultOptions returns the canonical run setup.
func DefaultOptions() Options {
	return Options{
		Game:             game.DefaultConfig(),
		City:             game.DefaultCityLayout(),
		TickInterval:     game.TickInterval,
		Layout:           LayoutLandmarks,
		DestinationCount: 5,
		Meter:            defaultMeter(),
	}
}

// OptionsFromConfig maps environment configuration onto session options.
// Invalid values fall back to the defaults.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()

	if cfg.TickRate > 0 {
		opts.TickInterval = time.Second / time.Duration(cfg.TickRate)
	} else {
		slog.Warn("invalid tick rate, using default", "tick_rate", cfg.TickRate)
	}
	if cfg.RunDuration > 0 {
		opts.Game.RunDuration = cfg.RunDuration
	}
	if cfg.MissionTimeLimit >= 0 {
		opts.Game.Mission.MissionTimeLimit = cfg.MissionTimeLimit
	}
	if cfg.DeliveryRadius > 0 {
		opts.Game.Mission.DeliveryRadius = cfg.DeliveryRadius
	}
	opts.Game.Mission.Mode = game.ParseRunMode(cfg.RunMode)
	opts.Game.Minimap.Orientation = game.ParseMinimapOrientation(cfg.MinimapMode)

	opts.Seed = cfg.CitySeed
	switch cfg.DestinationLayout {
	case LayoutLandmarks, LayoutScatter:
		opts.Layout = cfg.DestinationLayout
	default:
		slog.Warn("unknown destination layout, using landmarks", "layout", cfg.DestinationLayout)
	}
	if cfg.DestinationCount > 0 {
		opts.DestinationCount = cfg.DestinationCount
	}
	return opts
}

func (o Options) newRand() *rand.Rand {
	seed := o.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func (o Options) buildPool(rng *rand.Rand) []*game.Destination {
	if o.Layout == LayoutScatter {
		return game.ScatterDestinations(rng, o.DestinationCount)
	}
	return game.LandmarkDestinations()
}
