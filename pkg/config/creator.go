package config

import (
	"github.com/tauraamui/camplayer/internal/config"
	"github.com/tauraamui/camplayer/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
