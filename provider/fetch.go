package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/tidwall/gjson"

	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/utils"
)

// maxUnitsPerRequest caps how many units a single outbound call may ask for.
// Larger fetches are split into sequential chunks.
const maxUnitsPerRequest = 1024

var (
	// ErrBadStatus is returned when the provider responds with a non-2xx
	// status even after retries.
	ErrBadStatus = errors.New("provider returned unexpected status")

	// ErrBadPayload is returned when the provider response cannot be parsed
	// or holds invalid units.
	ErrBadPayload = errors.New("provider returned malformed payload")

	// ErrRefused is returned when the provider reports success=false.
	ErrRefused = errors.New("provider refused the request")

	unitsFetched = vm.GetOrCreateCounter("qrngenv_provider_units_fetched_total")
	fetchErrors  = vm.GetOrCreateCounter("qrngenv_provider_fetch_errors_total")
)

// Fetch retrieves count entropy units of unitBits width (8 or 16) from the
// provider. Fetches larger than the per-call cap are chunked with a short
// pause between calls. Any failure discards all partial progress.
func (c *Client) Fetch(ctx context.Context, count, unitBits int) ([]uint16, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid unit count: %d", count)
	}
	if unitBits != 8 && unitBits != 16 {
		return nil, fmt.Errorf("unsupported unit width: %d bits", unitBits)
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	units := make([]uint16, 0, count)
	for len(units) < count {
		chunkSize := count - len(units)
		if chunkSize > maxUnitsPerRequest {
			chunkSize = maxUnitsPerRequest
		}

		chunk, err := c.fetchChunk(ctx, chunkSize, unitBits)
		if err != nil {
			fetchErrors.Inc()
			return nil, err
		}
		units = append(units, chunk...)
		unitsFetched.Add(len(chunk))

		// Be polite to the provider between calls, but never delay the
		// moment the fetch is complete.
		if len(units) < count {
			select {
			case <-time.After(time.Duration(chunkPause()) * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	log.Tracer(ctx).Tracef("provider: fetched %d %d-bit units", len(units), unitBits)
	return units, nil
}

func (c *Client) fetchChunk(ctx context.Context, length, unitBits int) ([]uint16, error) {
	unitType := "uint8"
	if unitBits == 16 {
		unitType = "uint16"
	}

	req := c.resty.R().
		SetContext(ctx).
		SetQueryParam("length", strconv.Itoa(length)).
		SetQueryParam("type", unitType)
	if key := apiKey(); key != "" {
		req.SetHeader("x-api-key", key)
	}

	resp, err := req.Get(apiURL())
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status())
	}

	return parseChunk(resp.Body(), length, unitBits)
}

// parseChunk extracts up to length units from a provider response body.
func parseChunk(body []byte, length, unitBits int) ([]uint16, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json: %s", ErrBadPayload, utils.SafeFirst16Bytes(body))
	}
	if !gjson.GetBytes(body, "success").Bool() {
		return nil, ErrRefused
	}
	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, fmt.Errorf("%w: missing data array", ErrBadPayload)
	}

	maxValue := int64(1)<<uint(unitBits) - 1
	units := make([]uint16, 0, length)
	for _, entry := range data.Array() {
		if entry.Type != gjson.Number || entry.Num != math.Trunc(entry.Num) {
			return nil, fmt.Errorf("%w: non-integer unit %s", ErrBadPayload, utils.SafeFirst16Chars(entry.Raw))
		}
		value := entry.Int()
		if value < 0 || value > maxValue {
			return nil, fmt.Errorf("%w: unit %d exceeds %d bits", ErrBadPayload, value, unitBits)
		}

		units = append(units, uint16(value))
		// A well-behaved provider never sends more than asked for.
		if len(units) == length {
			break
		}
	}
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: empty data array", ErrBadPayload)
	}

	return units, nil
}
