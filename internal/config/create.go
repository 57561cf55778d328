package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tauraamui/camplayer/pkg/configdef"
	"github.com/tauraamui/xerror"
	"gopkg.in/yaml.v3"
)

func create() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	data, err := loadRawDefaultConfig(path)
	if err != nil {
		return xerror.Errorf("unable to init default config into memory: %w", err)
	}

	if err := ensureParentDirExists(path); err != nil {
		return err
	}

	err = writeConfigToDisk(data, path, false)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return configdef.ErrConfigAlreadyExists
		}
		return err
	}

	return nil
}

func writeConfigToDisk(data []byte, path string, overwrite bool) error {
	flags := os.O_RDWR | os.O_CREATE
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := fs.OpenFile(path, flags, 0666)
	if err != nil {
		return xerror.Errorf("unable to create/open file: %w", err)
	}
	defer file.Close()

	bc, err := file.Write(data)
	if err != nil {
		return xerror.Errorf("unable to write config to file: %s: %w", path, err)
	}

	if bc != len(data) {
		return xerror.Errorf("unable to write full config data to file: %s", path)
	}

	return nil
}

func defaultValues() configdef.Values {
	show := true
	flush := defaultFlushFrames
	return configdef.Values{
		LogLevel:             "warn",
		Backend:              "opencv",
		Width:                640,
		Height:               480,
		Show:                 &show,
		FlushFrames:          &flush,
		TransformErrorPolicy: "abort",
		PollIntervalMS:       1,
		WindowTitle:          "camplayer",
	}
}

// mirrors the player's own default so a fresh file documents it
const defaultFlushFrames = 5

func loadRawDefaultConfig(path string) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(defaultValues())
	}
	return json.MarshalIndent(defaultValues(), "", " ")
}

func ensureParentDirExists(path string) error {
	parentDirPath := filepath.Dir(path)
	if _, err := fs.Stat(parentDirPath); errors.Is(err, os.ErrNotExist) {
		if err := fs.MkdirAll(parentDirPath, os.ModeDir|os.ModePerm); err != nil {
			return xerror.Errorf("unable to create config parent directory: %w", err)
		}
	}
	return nil
}

func destroy() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := fs.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return configdef.ErrConfigNotFound
		}
		return xerror.Errorf("unable to delete config file: %w", err)
	}
	return nil
}
