package rng

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aead/serpent"
	"github.com/seehuhn/fortuna"

	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/modules"
)

var (
	module *modules.Module

	rng      *fortuna.Generator
	rngLock  sync.Mutex
	rngReady = false

	rngCipherOption    config.StringOption
	minFeedEntropy     config.IntOption
	reseedAfterSeconds config.IntOption
	reseedAfterBytes   config.IntOption
)

func init() {
	module = modules.Register("rng", prep, start, nil, "config")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "RNG Cipher",
		Key:             "rng/cipher",
		Description:     "Cipher to use for the Fortuna RNG. Requires restart to take effect.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		RequiresRestart: true,
		DefaultValue:    "aes",
		ValidationRegex: "^(aes|serpent)$",
	})
	if err != nil {
		return err
	}
	rngCipherOption = config.Concurrent.GetAsString("rng/cipher", "aes")

	err = config.Register(&config.Option{
		Name:            "Minimum Feed Entropy",
		Key:             "rng/minFeedEntropy",
		Description:     "The minimum amount of entropy before an entropy source is fed to the RNG, in bits.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    256,
		ValidationRegex: "^[0-9]{3,5}$",
	})
	if err != nil {
		return err
	}
	minFeedEntropy = config.Concurrent.GetAsInt("rng/minFeedEntropy", 256)

	err = config.Register(&config.Option{
		Name:            "Reseed After Seconds",
		Key:             "rng/reseedAfterSeconds",
		Description:     "Number of seconds until the RNG is reseeded with fresh entropy.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    600,
		ValidationRegex: "^[1-9][0-9]{1,5}$",
	})
	if err != nil {
		return err
	}
	reseedAfterSeconds = config.Concurrent.GetAsInt("rng/reseedAfterSeconds", 600)

	err = config.Register(&config.Option{
		Name:            "Reseed After Bytes",
		Key:             "rng/reseedAfterBytes",
		Description:     "Number of served bytes until the RNG is reseeded with fresh entropy.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelDeveloper,
		DefaultValue:    1000000,
		ValidationRegex: "^[1-9][0-9]{2,9}$",
	})
	if err != nil {
		return err
	}
	reseedAfterBytes = config.Concurrent.GetAsInt("rng/reseedAfterBytes", 1000000)

	return nil
}

func newCipher(key []byte) (cipher.Block, error) {
	c := rngCipherOption()
	switch c {
	case "aes":
		return aes.NewCipher(key)
	case "serpent":
		return serpent.NewCipher(key)
	default:
		return nil, fmt.Errorf("unknown or unsupported cipher: %s", c)
	}
}

func start() error {
	rngLock.Lock()
	defer rngLock.Unlock()

	rng = fortuna.NewGenerator(newCipher)
	if rng == nil {
		return errors.New("failed to initialize rng")
	}

	lastFeed = time.Now()
	rngReady = true

	// random source: OS
	module.StartServiceWorker("os rng feeder", 0, osFeeder)

	// random source: goroutine ticks
	module.StartServiceWorker("tick rng feeder", 0, tickFeeder)

	// full feeder
	module.StartServiceWorker("full rng feeder", 0, fullFeeder)

	return nil
}
