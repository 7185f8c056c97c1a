package provider

import (
	"github.com/saradhi4688/qrngenv/config"
)

// CfgAPIURLKey is the config key of the provider API endpoint.
const CfgAPIURLKey = "provider/apiUrl"

var (
	apiURL               config.StringOption
	apiKey               config.StringOption
	requestTimeout       config.IntOption
	fetchRetries         config.IntOption
	retryBackoff         config.IntOption
	chunkPause           config.IntOption
	maxConcurrentFetches config.IntOption
)

func registerConfig() error {
	err := config.Register(&config.Option{
		Name:            "Provider API URL",
		Key:             CfgAPIURLKey,
		Description:     "URL of the quantum random number provider API. Must serve the ANU-style JSON interface.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelUser,
		DefaultValue:    "https://qrng.anu.edu.au/API/jsonI.php",
		ValidationRegex: "^https?://",
	})
	if err != nil {
		return err
	}
	apiURL = config.Concurrent.GetAsString(CfgAPIURLKey, "https://qrng.anu.edu.au/API/jsonI.php")

	err = config.Register(&config.Option{
		Name:           "Provider API Key",
		Key:            "provider/apiKey",
		Description:    "API key sent to the provider in the x-api-key header. Leave empty for the free interface.",
		OptType:        config.OptTypeString,
		ExpertiseLevel: config.ExpertiseLevelUser,
		DefaultValue:   "",
	})
	if err != nil {
		return err
	}
	apiKey = config.Concurrent.GetAsString("provider/apiKey", "")

	err = config.Register(&config.Option{
		Name:            "Request Timeout",
		Key:             "provider/requestTimeout",
		Description:     "Timeout for a single provider call, in seconds. Requires restart to take effect.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		RequiresRestart: true,
		DefaultValue:    8,
		ValidationRegex: "^[1-9][0-9]?$",
	})
	if err != nil {
		return err
	}
	requestTimeout = config.Concurrent.GetAsInt("provider/requestTimeout", 8)

	err = config.Register(&config.Option{
		Name:            "Fetch Retries",
		Key:             "provider/fetchRetries",
		Description:     "Number of times a failed provider call is retried. Requires restart to take effect.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		RequiresRestart: true,
		DefaultValue:    3,
		ValidationRegex: "^[0-9]$",
	})
	if err != nil {
		return err
	}
	fetchRetries = config.Concurrent.GetAsInt("provider/fetchRetries", 3)

	err = config.Register(&config.Option{
		Name:            "Retry Backoff",
		Key:             "provider/retryBackoff",
		Description:     "Base wait time between retried provider calls, in milliseconds. Requires restart to take effect.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		RequiresRestart: true,
		DefaultValue:    600,
		ValidationRegex: "^[1-9][0-9]{0,4}$",
	})
	if err != nil {
		return err
	}
	retryBackoff = config.Concurrent.GetAsInt("provider/retryBackoff", 600)

	err = config.Register(&config.Option{
		Name:            "Chunk Pause",
		Key:             "provider/chunkPause",
		Description:     "Pause between chunked provider calls of a single fetch, in milliseconds.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    20,
		ValidationRegex: "^[0-9]{1,4}$",
	})
	if err != nil {
		return err
	}
	chunkPause = config.Concurrent.GetAsInt("provider/chunkPause", 20)

	err = config.Register(&config.Option{
		Name:            "Max Concurrent Fetches",
		Key:             "provider/maxConcurrentFetches",
		Description:     "Maximum number of simultaneous outbound fetches to the provider. Requires restart to take effect.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		RequiresRestart: true,
		DefaultValue:    4,
		ValidationRegex: "^[1-9][0-9]?$",
	})
	if err != nil {
		return err
	}
	maxConcurrentFetches = config.Concurrent.GetAsInt("provider/maxConcurrentFetches", 4)

	return nil
}
