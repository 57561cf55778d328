package config

import (
	"github.com/tauraamui/camplayer/internal/config"
	"github.com/tauraamui/camplayer/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
