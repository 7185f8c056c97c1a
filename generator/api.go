package generator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/saradhi4688/qrngenv/api"
)

var errNoResultYet = errors.New("no result generated yet")

func registerAPIEndpoints() error {
	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/generate",
		BelongsTo:   module,
		StructFunc:  handleGenerate,
		Name:        "Generate Random Numbers",
		Description: "Generates random numbers from the quantum entropy provider, falling back to the local simulator.",
		Parameters: []api.Parameter{{
			Method:      http.MethodPost,
			Field:       "num_bits",
			Value:       strconv.Itoa(DefaultBits),
			Description: fmt.Sprintf("Bit width of each sample, %d to %d.", MinBits, MaxBits),
		}, {
			Method:      http.MethodPost,
			Field:       "num_samples",
			Value:       strconv.Itoa(DefaultSamples),
			Description: fmt.Sprintf("Number of samples to generate, %d to %d.", MinSamples, MaxSamples),
		}},
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/last",
		BelongsTo:   module,
		StructFunc:  handleLast,
		Name:        "Get Last Result",
		Description: "Returns the most recently generated result.",
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/export",
		BelongsTo:   module,
		HandlerFunc: handleExport,
		Name:        "Export Last Result",
		Description: "Exports the most recently generated result for download.",
		Parameters: []api.Parameter{{
			Method:      http.MethodGet,
			Field:       "format",
			Value:       "json",
			Description: "Export format, json or csv.",
		}},
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/history",
		BelongsTo:   module,
		StructFunc:  handleHistory,
		Name:        "Get Generation History",
		Description: "Returns metadata of recent generations, newest first. The generated numbers themselves are not recorded.",
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/history/clear",
		BelongsTo:   module,
		ActionFunc:  handleClearHistory,
		Name:        "Clear Generation History",
		Description: "Drops all recorded generation metadata.",
	}); err != nil {
		return err
	}

	if err := api.RegisterEndpoint(api.Endpoint{
		Path:        "random/circuit",
		BelongsTo:   module,
		StructFunc:  handleCircuit,
		Name:        "Get Circuit Description",
		Description: "Describes the measurement circuit the local simulator uses for the given bit width.",
		Parameters: []api.Parameter{{
			Method:      http.MethodGet,
			Field:       "bits",
			Value:       strconv.Itoa(DefaultBits),
			Description: fmt.Sprintf("Bit width of the circuit, %d to %d.", MinBits, MaxBits),
		}},
	}); err != nil {
		return err
	}

	return api.RegisterEndpoint(api.Endpoint{
		Path:        "random/stream",
		BelongsTo:   module,
		HandlerFunc: handleStream,
		Name:        "Stream Results",
		Description: "Upgrades to a websocket connection and pushes every newly generated result.",
	})
}

func handleGenerate(ar *api.Request) (interface{}, error) {
	numBits := DefaultBits
	numSamples := DefaultSamples

	if len(ar.InputData) > 0 {
		if !gjson.ValidBytes(ar.InputData) {
			return nil, api.ErrorWithStatus(fmt.Errorf("%w: request body must be json", ErrInvalidParams), http.StatusBadRequest)
		}
		if field := gjson.GetBytes(ar.InputData, "num_bits"); field.Exists() {
			if field.Type != gjson.Number {
				return nil, api.ErrorWithStatus(fmt.Errorf("%w: num_bits must be a number", ErrInvalidParams), http.StatusBadRequest)
			}
			numBits = int(field.Int())
		}
		if field := gjson.GetBytes(ar.InputData, "num_samples"); field.Exists() {
			if field.Type != gjson.Number {
				return nil, api.ErrorWithStatus(fmt.Errorf("%w: num_samples must be a number", ErrInvalidParams), http.StatusBadRequest)
			}
			numSamples = int(field.Int())
		}
	}

	result, err := Generate(ar.Ctx(), numBits, numSamples)
	if err != nil {
		if errors.Is(err, ErrInvalidParams) {
			return nil, api.ErrorWithStatus(err, http.StatusBadRequest)
		}
		return nil, err
	}
	return result, nil
}

func handleLast(_ *api.Request) (interface{}, error) {
	result, ok := GetLast()
	if !ok {
		return nil, api.ErrorWithStatus(errNoResultYet, http.StatusNotFound)
	}
	return result, nil
}

func handleHistory(_ *api.Request) (interface{}, error) {
	return History(), nil
}

func handleClearHistory(_ *api.Request) (string, error) {
	ClearHistory()
	return "history cleared", nil
}

func handleCircuit(ar *api.Request) (interface{}, error) {
	numBits := DefaultBits
	if v := ar.Request.URL.Query().Get("bits"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, api.ErrorWithStatus(fmt.Errorf("%w: bits must be an integer", ErrInvalidParams), http.StatusBadRequest)
		}
		numBits = parsed
	}

	info, err := GetCircuitInfo(numBits)
	if err != nil {
		if errors.Is(err, ErrInvalidParams) {
			return nil, api.ErrorWithStatus(err, http.StatusBadRequest)
		}
		return nil, err
	}
	return info, nil
}

func handleExport(w http.ResponseWriter, r *http.Request) {
	result, ok := GetLast()
	if !ok {
		http.Error(w, errNoResultYet.Error(), http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	filename := "qrng-" + result.Generated.Format("20060102-150405")

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.json"`)
		_, _ = w.Write(data)

	case "csv":
		buf := &bytes.Buffer{}
		fmt.Fprintf(buf, "# generated=%s source=%s num_bits=%d num_samples=%d entropy=%.4f\n",
			result.Generated.Format(time.RFC3339), result.Source, result.NumBits, result.NumSamples, result.Entropy)
		cw := csv.NewWriter(buf)
		_ = cw.Write([]string{"index", "value"})
		for i, number := range result.Numbers {
			_ = cw.Write([]string{strconv.Itoa(i), strconv.FormatUint(uint64(number), 10)})
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`.csv"`)
		_, _ = buf.WriteTo(w)

	default:
		http.Error(w, "unsupported export format: "+format, http.StatusBadRequest)
	}
}
