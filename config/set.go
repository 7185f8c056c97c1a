package config

import (
	"fmt"
	"sync"

	"github.com/tevino/abool"
)

var (
	validityFlag     = abool.NewBool(true)
	validityFlagLock sync.RWMutex
)

// getValidityFlag returns a flag that signifies if the configuration has
// been changed. This flag must not be changed, only read.
func getValidityFlag() *abool.AtomicBool {
	validityFlagLock.RLock()
	defer validityFlagLock.RUnlock()
	return validityFlag
}

// signalChanges marks the configs validityFlag as dirty and triggers
// a config change event.
func signalChanges() {
	// reset validity flag
	validityFlagLock.Lock()
	validityFlag.SetTo(false)
	validityFlag = abool.NewBool(true)
	validityFlagLock.Unlock()

	module.TriggerEvent(configChangeEvent, nil)
}

// replaceConfig sets the (prioritized) user defined config.
func replaceConfig(newValues map[string]interface{}) error {
	var firstErr error
	var errCnt int

	// RLock the options because we are not adding or removing
	// options from the registration but rather only update the
	// options value which is guarded by the option's lock itself
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	for key, option := range options {
		newValue, ok := newValues[key]

		option.Lock()
		option.activeValue = nil
		if ok {
			valueCache, err := validateValue(option, newValue)
			if err == nil {
				option.activeValue = valueCache
			} else {
				errCnt++
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		option.Unlock()
	}

	signalChanges()

	if firstErr != nil {
		if errCnt > 1 {
			return fmt.Errorf("encountered %d errors, first was: %s", errCnt, firstErr)
		}
		return firstErr
	}

	return nil
}

// replaceDefaultConfig sets the (fallback) default config.
func replaceDefaultConfig(newValues map[string]interface{}) error {
	var firstErr error
	var errCnt int

	// RLock the options because we are not adding or removing
	// options from the registration but rather only update the
	// options value which is guarded by the option's lock itself
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	for key, option := range options {
		newValue, ok := newValues[key]

		option.Lock()
		option.activeDefaultValue = nil
		if ok {
			valueCache, err := validateValue(option, newValue)
			if err == nil {
				option.activeDefaultValue = valueCache
			} else {
				errCnt++
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		option.Unlock()
	}

	signalChanges()

	if firstErr != nil {
		if errCnt > 1 {
			return fmt.Errorf("encountered %d errors, first was: %s", errCnt, firstErr)
		}
		return firstErr
	}

	return nil
}

// SetConfigOption sets a single value in the (prioritized) user defined config.
func SetConfigOption(key string, value interface{}) error {
	return setConfigOption(key, value, true)
}

func setConfigOption(key string, value interface{}, save bool) (err error) {
	option, err := GetOption(key)
	if err != nil {
		return err
	}

	option.Lock()
	if value == nil {
		option.activeValue = nil
	} else {
		var valueCache *valueCache
		valueCache, err = validateValue(option, value)
		if err == nil {
			option.activeValue = valueCache
		}
	}
	option.Unlock()

	if err != nil {
		return err
	}

	// finalize change, activate triggers
	signalChanges()

	if save {
		return saveConfig()
	}
	return nil
}

// SetDefaultConfigOption sets a single value in the (fallback) default config.
func SetDefaultConfigOption(key string, value interface{}) (err error) {
	option, err := GetOption(key)
	if err != nil {
		return err
	}

	option.Lock()
	if value == nil {
		option.activeDefaultValue = nil
	} else {
		var valueCache *valueCache
		valueCache, err = validateValue(option, value)
		if err == nil {
			option.activeDefaultValue = valueCache
		}
	}
	option.Unlock()

	if err != nil {
		return err
	}

	// finalize change, activate triggers
	signalChanges()

	// Do not save the configuration, as it only holds the active
	// values, not the active default values.
	return nil
}
