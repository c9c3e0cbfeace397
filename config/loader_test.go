package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/user/touch-ref-logger/config"
)

var configEnvVars = []string{
	"TOUCHREF_CONFIG",
	"TOUCHREF_OUTPUT",
	"TOUCHREF_REQUIRE_REFEREE",
	"TOUCHREF_SAMPLE_INTERVAL",
	"TOUCHREF_CATALOG",
	"TOUCHREF_LOG_LEVEL",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "touchref.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigNew(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.RequireReferee, convey.ShouldBeTrue)
			convey.So(cfg.Catalog, convey.ShouldEqual, "touch")
			convey.So(cfg.Output, convey.ShouldEqual, "event_log.csv")
			convey.So(cfg.Autosave, convey.ShouldBeTrue)
			convey.So(cfg.SampleInterval, convey.ShouldEqual, time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the default machine has three referees and nine events", func() {
			m, err := cfg.Machine()
			convey.So(err, convey.ShouldBeNil)
			convey.So(m.Registry().Keys(), convey.ShouldResemble, []rune{'a', 's', 'd'})
			convey.So(len(m.Catalog().Events()), convey.ShouldEqual, 9)
			convey.So(m.RequireReferee(), convey.ShouldBeTrue)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then it should match New", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading a YAML file", func() {
			path := writeConfigFile(t, `
require_referee: false
catalog: sports
output: match.csv
description_column: true
sample_interval: 500ms
referees:
  - key: a
    name: Sam
  - key: f
    name: Fran
`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.RequireReferee, convey.ShouldBeFalse)
				convey.So(cfg.Catalog, convey.ShouldEqual, "sports")
				convey.So(cfg.Output, convey.ShouldEqual, "match.csv")
				convey.So(cfg.DescriptionColumn, convey.ShouldBeTrue)
				convey.So(cfg.SampleInterval, convey.ShouldEqual, 500*time.Millisecond)
				convey.So(cfg.Autosave, convey.ShouldBeTrue)
			})

			convey.Convey("Then the machine uses the configured referees", func() {
				m, err := cfg.Machine()
				convey.So(err, convey.ShouldBeNil)
				convey.So(m.Registry().Keys(), convey.ShouldResemble, []rune{'a', 'f'})
				convey.So(m.Registry().Resolve('f'), convey.ShouldEqual, "Fran")
				convey.So(len(m.Catalog().Events()), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When the file is named by TOUCHREF_CONFIG and env overrides it", func() {
			path := writeConfigFile(t, "output: file.csv\ncatalog: sports\n")
			_ = os.Setenv("TOUCHREF_CONFIG", path)
			_ = os.Setenv("TOUCHREF_OUTPUT", "env.csv")
			_ = os.Setenv("TOUCHREF_REQUIRE_REFEREE", "false")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then env wins over the file and the file over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Output, convey.ShouldEqual, "env.csv")
				convey.So(cfg.Catalog, convey.ShouldEqual, "sports")
				convey.So(cfg.RequireReferee, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When custom events are configured", func() {
			path := writeConfigFile(t, `
events:
  - key: "1"
    label: Try
  - key: "2"
    label: Knock-on
`)
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then they replace the preset", func() {
				convey.So(err, convey.ShouldBeNil)
				m, err := cfg.Machine()
				convey.So(err, convey.ShouldBeNil)
				e, ok := m.Catalog().Find("knock-on")
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(e.Hotkey, convey.ShouldEqual, '2')
			})
		})

		convey.Convey("When a referee key collides with an event key", func() {
			path := writeConfigFile(t, "referees:\n  - key: \"1\"\n    name: One\n")
			cfg, err := config.Load(ctx, path)

			convey.Convey("Then loading fails validation", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When values are invalid", func() {
			_ = os.Setenv("TOUCHREF_SAMPLE_INTERVAL", "0s")
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then a validation error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "sample_interval")
			})
		})

		convey.Convey("When the log level is unknown", func() {
			_ = os.Setenv("TOUCHREF_LOG_LEVEL", "chatty")
			_, err := config.Load(ctx, "")

			convey.Convey("Then it is rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file is missing or malformed", func() {
			_, missingErr := config.Load(ctx, "/non/existent/touchref.yaml")
			_, badErr := config.Load(ctx, writeConfigFile(t, "invalid: yaml: content: ["))

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(missingErr, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(badErr, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigMarshal(t *testing.T) {
	convey.Convey("Given a config with referees", t, func() {
		cfg := config.New()
		cfg.Referees = []config.RefereeConfig{{Key: "a", Name: "Sam"}}

		convey.Convey("Then it renders as YAML with flat keys", func() {
			out, err := cfg.Marshal()
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(out), convey.ShouldContainSubstring, "require_referee: true")
			convey.So(string(out), convey.ShouldContainSubstring, "sample_interval: 1s")
			convey.So(string(out), convey.ShouldContainSubstring, "name: Sam")
		})
	})
}
