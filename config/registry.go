package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/armon/go-radix"
	"golang.org/x/exp/slices"
)

var (
	optionsLock sync.RWMutex
	options     = make(map[string]*Option)
	optionsTree = radix.New()

	// ErrIncompleteCall is returned when Register is called with empty
	// mandatory values.
	ErrIncompleteCall = errors.New("could not register config option: all fields, except for RequiresRestart and ValidationRegex, are mandatory")
)

// Register registers a new configuration option.
func Register(option *Option) error {
	if option.Name == "" ||
		option.Key == "" ||
		option.Description == "" ||
		option.ExpertiseLevel == 0 ||
		option.OptType == 0 {
		return ErrIncompleteCall
	}

	if option.ValidationRegex != "" {
		var err error
		option.compiledRegex, err = regexp.Compile(option.ValidationRegex)
		if err != nil {
			return fmt.Errorf("config: could not compile option.ValidationRegex: %w", err)
		}
	}

	optionsLock.Lock()
	defer optionsLock.Unlock()

	options[option.Key] = option
	optionsTree.Insert(option.Key, option)

	return nil
}

// GetOption returns the option registered under the given key.
func GetOption(key string) (*Option, error) {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	option, ok := options[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, key)
	}
	return option, nil
}

// ForEachOption calls fn for each option whose key starts with keyPrefix,
// in key order. Supply an empty prefix to walk all options. Iteration is
// aborted when fn returns an error, which is then returned.
func ForEachOption(keyPrefix string, fn func(option *Option) error) (err error) {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	optionsTree.WalkPrefix(keyPrefix, func(key string, value interface{}) bool {
		option, ok := value.(*Option)
		if !ok {
			err = fmt.Errorf("invalid registry entry for %s", key)
			return true
		}

		err = fn(option)
		return err != nil
	})
	return err
}

// ExportOptions returns a json representation of all options whose key
// starts with keyPrefix, ordered by key.
func ExportOptions(keyPrefix string) ([]byte, error) {
	optionsLock.RLock()
	defer optionsLock.RUnlock()

	exportList := make([]*Option, 0, len(options))
	for _, option := range options {
		if strings.HasPrefix(option.Key, keyPrefix) {
			exportList = append(exportList, option)
		}
	}
	slices.SortFunc(exportList, func(a, b *Option) int {
		return strings.Compare(a.Key, b.Key)
	})

	exported := make([]json.RawMessage, 0, len(exportList))
	for _, option := range exportList {
		data, err := option.Export()
		if err != nil {
			return nil, err
		}
		exported = append(exported, data)
	}

	return json.Marshal(exported)
}
