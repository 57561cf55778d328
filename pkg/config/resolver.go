package config

import (
	"errors"

	"github.com/tauraamui/camplayer/internal/config"
	"github.com/tauraamui/camplayer/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}

// ResolveOrDefault resolves values with r, treating a missing config
// file as an empty one.
func ResolveOrDefault(r Resolver) (configdef.Values, error) {
	values, err := r.Resolve()
	if errors.Is(err, configdef.ErrConfigNotFound) {
		return configdef.Values{}, nil
	}
	return values, err
}
