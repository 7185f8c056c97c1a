// Package archive persists generation results for later retrieval.
//
// Entries are serialized with dsd in the configured format and stored
// through the storage package under result/<uuid> keys. Reading back is
// format agnostic, so the format option may be changed at any time
// without migrating existing entries.
package archive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"golang.org/x/exp/slices"

	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/formats/dsd"
	"github.com/saradhi4688/qrngenv/generator"
	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/modules"
	"github.com/saradhi4688/qrngenv/storage"
)

// CfgFormatKey is the config key of the archive serialization format.
const CfgFormatKey = "archive/format"

const keyPrefix = "result/"

var (
	module *modules.Module

	formatOption config.StringOption

	// ErrNoResult is returned when there is no result to save.
	ErrNoResult = errors.New("no result available")

	// ErrNotFound is returned when the requested entry does not exist.
	ErrNotFound = storage.ErrNotFound
)

// SavedResult is an archived generation result.
type SavedResult struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Result *generator.Result `json:"result"`
	Saved  time.Time         `json:"saved"`
}

func init() {
	module = modules.Register("archive", prep, nil, nil, "storage", "generator")
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "Archive Format",
		Key:             CfgFormatKey,
		Description:     "Serialization format for newly archived results. Existing entries stay readable in their original format.",
		OptType:         config.OptTypeString,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		DefaultValue:    "json",
		ValidationRegex: "^(json|cbor|msgpack)$",
	})
	if err != nil {
		return err
	}
	formatOption = config.Concurrent.GetAsString(CfgFormatKey, "json")

	return registerAPIEndpoints()
}

func serializationFormat() dsd.SerializationFormat {
	switch formatOption() {
	case "cbor":
		return dsd.CBOR
	case "msgpack":
		return dsd.MsgPack
	default:
		return dsd.JSON
	}
}

// SaveLast archives the most recent generation result under the given name.
func SaveLast(name string) (*SavedResult, error) {
	result, ok := generator.GetLast()
	if !ok {
		return nil, ErrNoResult
	}
	return Save(name, result)
}

// Save archives the given result under the given name. An empty name is
// replaced with a timestamp based one. The stored entry is returned.
func Save(name string, result *generator.Result) (*SavedResult, error) {
	if result == nil {
		return nil, ErrNoResult
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate entry id: %w", err)
	}

	entry := &SavedResult{
		ID:     id.String(),
		Name:   name,
		Result: result,
		Saved:  time.Now().UTC(),
	}
	if entry.Name == "" {
		entry.Name = "result-" + entry.Saved.Format("20060102-150405")
	}

	data, err := dsd.Dump(entry, serializationFormat())
	if err != nil {
		return nil, fmt.Errorf("failed to serialize entry: %w", err)
	}

	err = storage.Put(keyPrefix+entry.ID, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}

	log.Infof("archive: saved result %s as %q", entry.ID, entry.Name)
	return entry, nil
}

// Get returns the archived entry with the given id. Malformed ids are
// reported as not found.
func Get(id string) (*SavedResult, error) {
	parsedID, err := uuid.FromString(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}

	data, err := storage.Get(keyPrefix + parsedID.String())
	if err != nil {
		return nil, err
	}

	entry := &SavedResult{}
	_, err = dsd.Load(data, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry %s: %w", id, err)
	}
	return entry, nil
}

// List returns all archived entries, newest first.
func List() ([]*SavedResult, error) {
	var entries []*SavedResult

	err := storage.IteratePrefix(keyPrefix, func(key string, data []byte) error {
		entry := &SavedResult{}
		_, err := dsd.Load(data, entry)
		if err != nil {
			// Skip unreadable entries instead of failing the whole listing.
			log.Warningf("archive: failed to parse entry %s: %s", key, err)
			return nil
		}
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b *SavedResult) int {
		return b.Saved.Compare(a.Saved)
	})
	return entries, nil
}

// Delete removes the archived entry with the given id.
func Delete(id string) error {
	parsedID, err := uuid.FromString(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrNotFound, id)
	}
	key := keyPrefix + parsedID.String()

	// Check existence first, so that deleting a missing entry reports it.
	_, err = storage.Get(key)
	if err != nil {
		return err
	}

	err = storage.Delete(key)
	if err != nil {
		return err
	}

	log.Infof("archive: deleted result %s", id)
	module.StartWorker("storage maintenance", func(_ context.Context) error {
		return storage.TriggerMaintenance()
	})
	return nil
}
