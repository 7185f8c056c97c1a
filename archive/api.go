package archive

import (
	"errors"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/saradhi4688/qrngenv/api"
)

func registerAPIEndpoints() error {
	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/save",
		BelongsTo:   module,
		StructFunc:  handleSave,
		Name:        "Archive Last Result",
		Description: "Saves the most recently generated result to the archive and returns the archived entry.",
		Parameters: []api.Parameter{{
			Method:      http.MethodPost,
			Field:       "name",
			Description: "Optional display name for the archived entry.",
		}},
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/saved",
		BelongsTo:   module,
		StructFunc:  handleList,
		Name:        "List Archived Results",
		Description: "Returns all archived results, newest first.",
	}); err != nil {
		return err
	}

	return api.RegisterEndpoint(api.Endpoint{
		Path:        "random/saved/{id}",
		BelongsTo:   module,
		StructFunc:  handleEntry,
		Name:        "Get or Delete Archived Result",
		Description: "Fetches an archived result, or removes it when requested with the DELETE method.",
	})
}

func handleSave(ar *api.Request) (interface{}, error) {
	var name string
	if len(ar.InputData) > 0 {
		name = gjson.GetBytes(ar.InputData, "name").String()
	}

	entry, err := SaveLast(name)
	if err != nil {
		if errors.Is(err, ErrNoResult) {
			return nil, api.ErrorWithStatus(err, http.StatusNotFound)
		}
		return nil, err
	}
	return entry, nil
}

func handleList(_ *api.Request) (interface{}, error) {
	entries, err := List()
	if err != nil {
		return nil, err
	}
	if entries == nil {
		// Marshal as an empty list, not null.
		entries = []*SavedResult{}
	}
	return entries, nil
}

func handleEntry(ar *api.Request) (interface{}, error) {
	id := ar.URLVars["id"]

	switch ar.Request.Method {
	case http.MethodDelete:
		if err := Delete(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, api.ErrorWithStatus(err, http.StatusNotFound)
			}
			return nil, err
		}
		return map[string]string{"deleted": id}, nil

	default:
		entry, err := Get(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, api.ErrorWithStatus(err, http.StatusNotFound)
			}
			return nil, err
		}
		return entry, nil
	}
}
