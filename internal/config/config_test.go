package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cccmmm5858-cpu/astro-web/internal/config"
	"github.com/cccmmm5858-cpu/astro-web/internal/domain/zodiac"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.NatalFile, convey.ShouldEqual, "Stock.xlsx")
			convey.So(cfg.TransitFile, convey.ShouldEqual, "Transit.xlsx")
			convey.So(cfg.Orb, convey.ShouldEqual, 1.0)
			convey.So(cfg.ContinuousHours, convey.ShouldEqual, 20.0)
			convey.So(cfg.ReloadQueueSize, convey.ShouldEqual, 4)
			convey.So(cfg.WatchDebounce(), convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Weights(t *testing.T) {
	convey.Convey("Given weight overrides", t, func() {
		cfg := config.New(context.Background())
		cfg.PlanetWeights = map[string]int{"jupiter": 9, "زحل": -1}
		cfg.AspectWeights = map[string]int{"Trine": 4}

		convey.Convey("Then overrides apply on top of the built-in tables", func() {
			planets, err := cfg.Planets()
			convey.So(err, convey.ShouldBeNil)
			convey.So(planets[zodiac.Jupiter], convey.ShouldEqual, 9)
			convey.So(planets[zodiac.Saturn], convey.ShouldEqual, -1)
			convey.So(planets[zodiac.Venus], convey.ShouldEqual, 2)

			aspects, err := cfg.AspectScores()
			convey.So(err, convey.ShouldBeNil)
			convey.So(aspects[zodiac.Trine], convey.ShouldEqual, 4)
			convey.So(aspects[zodiac.Square], convey.ShouldEqual, -2)
		})

		convey.Convey("When a name is unknown", func() {
			cfg.PlanetWeights = map[string]int{"vulcan": 1}

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":        func(c *config.Config) { c.Addr = " " },
			"bad format":        func(c *config.Config) { c.LogFormat = "xml" },
			"bad level":         func(c *config.Config) { c.LogLevel = "loud" },
			"zero orb":          func(c *config.Config) { c.Orb = 0 },
			"huge orb":          func(c *config.Config) { c.Orb = 20 },
			"zero hours":        func(c *config.Config) { c.ContinuousHours = 0 },
			"zero queue":        func(c *config.Config) { c.ReloadQueueSize = 0 },
			"negative debounce": func(c *config.Config) { c.WatchDebounceMS = -1 },
			"unknown aspect":    func(c *config.Config) { c.AspectWeights = map[string]int{"quincunx": 1} },
			"empty natal file":  func(c *config.Config) { c.NatalFile = "" },
		}

		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New(context.Background())
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
