package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/tidwall/sjson"
)

// Option types for frontend identification.
const (
	OptTypeString      uint8 = 1
	OptTypeStringArray uint8 = 2
	OptTypeInt         uint8 = 3
	OptTypeBool        uint8 = 4

	ExpertiseLevelUser      uint8 = 1
	ExpertiseLevelExpert    uint8 = 2
	ExpertiseLevelDeveloper uint8 = 3
)

func getTypeName(t uint8) string {
	switch t {
	case OptTypeString:
		return "string"
	case OptTypeStringArray:
		return "[]string"
	case OptTypeInt:
		return "int"
	case OptTypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Option describes a configuration option.
type Option struct {
	sync.Mutex `json:"-"`

	// Name holds the human readable name of the option, meant for
	// presentation purposes.
	Name string

	// Key holds the unique identifier of the option. It follows the
	// path format `category/sub/key`.
	Key string

	// Description holds a human readable description of what the
	// option does.
	Description string

	// OptType defines the type of the option value.
	OptType uint8

	// ExpertiseLevel defines the expertise required to change
	// this option.
	ExpertiseLevel uint8

	// RequiresRestart signifies that a change only takes effect
	// after a restart.
	RequiresRestart bool

	// DefaultValue holds the fallback value of the option. It may be
	// overridden during runtime with SetDefaultConfigOption.
	DefaultValue interface{}

	// ValidationRegex may hold a regular expression that values must
	// match. String array options are validated entry by entry.
	ValidationRegex string

	activeValue        *valueCache
	activeDefaultValue *valueCache
	compiledRegex      *regexp.Regexp
}

// Export returns a json representation of the option, including its
// currently active and default values.
func (option *Option) Export() ([]byte, error) {
	option.Lock()
	defer option.Unlock()
	return option.export()
}

func (option *Option) export() ([]byte, error) {
	data, err := json.Marshal(option)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize option %s: %w", option.Key, err)
	}

	if option.activeValue != nil {
		data, err = sjson.SetBytes(data, "Value", option.activeValue.getData(option))
		if err != nil {
			return nil, fmt.Errorf("failed to add active value to option %s: %w", option.Key, err)
		}
	}

	if option.activeDefaultValue != nil {
		data, err = sjson.SetBytes(data, "DefaultValue", option.activeDefaultValue.getData(option))
		if err != nil {
			return nil, fmt.Errorf("failed to add active default value to option %s: %w", option.Key, err)
		}
	}

	return data, nil
}
