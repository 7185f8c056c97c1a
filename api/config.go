package api

import (
	"flag"

	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/log"
)

// CfgListenAddressKey is the configuration key of the API listen address.
const CfgListenAddressKey = "api/listenAddress"

var (
	listenAddressFlag    string
	listenAddressConfig  config.StringOption
	defaultListenAddress = "0.0.0.0:5000"
)

func init() {
	flag.StringVar(&listenAddressFlag, "api-address", "", "override api listen address")
}

func logFlagOverrides() {
	if listenAddressFlag != "" {
		log.Warning("api: api/listenAddress default config is being overridden by -api-address flag")
	}
}

func getDefaultListenAddress() string {
	// check if overridden
	if listenAddressFlag != "" {
		return listenAddressFlag
	}
	// return internal default
	return defaultListenAddress
}

func registerConfig() error {
	err := config.Register(&config.Option{
		Name:            "API Address",
		Key:             CfgListenAddressKey,
		Description:     "Defines the IP address and port the HTTP API listens on.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    getDefaultListenAddress(),
		ValidationRegex: "^([0-9]{1,3}\\.[0-9]{1,3}\\.[0-9]{1,3}\\.[0-9]{1,3}:[0-9]{1,5}|\\[[:0-9A-Fa-f]+\\]:[0-9]{1,5})$",
		RequiresRestart: true,
	})
	if err != nil {
		return err
	}
	listenAddressConfig = config.GetAsString(CfgListenAddressKey, getDefaultListenAddress())

	return nil
}

// SetDefaultAPIListenAddress sets the default listen address for the API.
// This must be called before the api module starts.
func SetDefaultAPIListenAddress(address string) {
	defaultListenAddress = address
}

func listenAddress() string {
	return listenAddressConfig()
}
