package config

import (
	"flag"

	"github.com/saradhi4688/qrngenv/log"
)

// Configuration Keys.
var (
	CfgDevModeKey  = "core/devMode"
	defaultDevMode bool
)

func init() {
	flag.BoolVar(&defaultDevMode, "devmode", false, "enable development mode")
}

func logDevModeOverride() {
	if defaultDevMode {
		log.Warning("config: development mode is enabled by default by the -devmode flag")
	}
}

func registerDevModeOption() error {
	return Register(&Option{
		Name:           "Development Mode",
		Key:            CfgDevModeKey,
		Description:    "In Development Mode, debugging interfaces are enabled and some restrictions are lifted for testing purposes.",
		OptType:        OptTypeBool,
		ExpertiseLevel: ExpertiseLevelDeveloper,
		DefaultValue:   defaultDevMode,
	})
}
