package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/saradhi4688/qrngenv/dataroot"
	"github.com/saradhi4688/qrngenv/modules"
)

// configChangeEvent is triggered whenever the configuration changes.
const configChangeEvent = "config change"

var (
	module *modules.Module

	dataDir string
)

func init() {
	module = modules.Register("config", prep, start, nil)
	module.RegisterEvent(configChangeEvent)

	flag.StringVar(&dataDir, "data", "data", "set data directory")
}

func prep() error {
	// The embedding program or test setup may have initialized the data
	// root already.
	if dataroot.Root() == nil {
		if err := dataroot.Initialize(dataDir, 0o755); err != nil {
			return fmt.Errorf("failed to initialize data root %s: %w", dataDir, err)
		}
	}

	return registerBasicOptions()
}

func start() error {
	configFilePath = filepath.Join(dataroot.Root().Path, "config.json")

	err := loadConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load config file %s: %w", configFilePath, err)
	}

	logDevModeOverride()
	return nil
}

func registerBasicOptions() error {
	return registerDevModeOption()
}
