package gatewayconfig

import (
	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	gwerrors "github.com/aurabx/harmony/internal/errors"
)

const component = "gatewayconfig"

var structValidator = validator.New()

// Load parses the TOML document at path, applies defaults, and runs both
// validation passes. A non-nil error is always a *gwerrors.GatewayError of
// KindConfig.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, gwerrors.Wrap(gwerrors.KindConfig, component, "failed to parse configuration file", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in the defaults spec.md §6 names for optional fields.
func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = "filesystem"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./tmp"
	}
	if c.Management.BasePath == "" {
		c.Management.BasePath = "admin"
	}
}
