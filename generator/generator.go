// Package generator produces quantum random numbers, preferring a remote
// quantum entropy provider with rejection sampling and falling back to a
// local measurement simulator.
package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	vm "github.com/VictoriaMetrics/metrics"
	"github.com/hashicorp/go-multierror"

	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/modules"
)

// generationEvent is triggered with the committed *Result after every
// successful generation.
const generationEvent = "generation"

// Limits of a single generation request.
const (
	MinBits    = 1
	MaxBits    = 16
	MinSamples = 1
	MaxSamples = 5000
)

// Defaults applied when a request omits parameters.
const (
	DefaultBits    = 8
	DefaultSamples = 10
)

var (
	module *modules.Module

	historySizeOption config.IntOption

	// ErrInvalidParams is returned when request parameters are outside the
	// supported ranges. No generation is attempted.
	ErrInvalidParams = errors.New("invalid generation parameters")

	// ErrAllSourcesFailed is returned when both the remote provider and the
	// local fallback failed to produce samples.
	ErrAllSourcesFailed = errors.New("all entropy sources failed")

	remoteGenerations  = vm.GetOrCreateCounter(`qrngenv_generations_total{source="remote"}`)
	localGenerations   = vm.GetOrCreateCounter(`qrngenv_generations_total{source="local"}`)
	remoteFallbacks    = vm.GetOrCreateCounter("qrngenv_generation_fallbacks_total")
	generationDuration = vm.GetOrCreateHistogram("qrngenv_generation_duration_seconds")
)

func init() {
	module = modules.Register("generator", prep, start, nil, "rng", "provider")
	module.RegisterEvent(generationEvent)
}

func prep() error {
	err := config.Register(&config.Option{
		Name:            "History Size",
		Key:             "generator/historySize",
		Description:     "Number of generation history entries to keep in memory. Requires restart to take effect.",
		OptType:         config.OptTypeInt,
		ExpertiseLevel:  config.ExpertiseLevelExpert,
		RequiresRestart: true,
		DefaultValue:    defaultHistorySize,
		ValidationRegex: "^[1-9][0-9]{0,3}$",
	})
	if err != nil {
		return err
	}
	historySizeOption = config.Concurrent.GetAsInt("generator/historySize", defaultHistorySize)

	if err := registerAPIEndpoints(); err != nil {
		return err
	}

	return registerStreamHook()
}

func start() error {
	initHistory(int(historySizeOption()))
	return nil
}

// Generate produces numSamples random numbers of numBits width each. The
// remote provider is tried first, the local simulator serves as fallback.
// On success the result is committed as the new last result.
func Generate(ctx context.Context, numBits, numSamples int) (*Result, error) {
	if numBits < MinBits || numBits > MaxBits {
		return nil, fmt.Errorf("%w: num_bits must be %d..%d", ErrInvalidParams, MinBits, MaxBits)
	}
	if numSamples < MinSamples || numSamples > MaxSamples {
		return nil, fmt.Errorf("%w: num_samples must be %d..%d", ErrInvalidParams, MinSamples, MaxSamples)
	}

	spec := newSampleSpec(numBits, numSamples)
	started := time.Now()

	source := SourceRemote
	numbers, err := sampleRemote(ctx, spec)
	if err != nil {
		// The remote path may fail, the local simulator takes over.
		log.Tracer(ctx).Warningf("generator: remote sampling failed, falling back to local: %s", err)
		remoteFallbacks.Inc()

		source = SourceLocal
		var localErr error
		numbers, localErr = sampleLocal(ctx, spec)
		if localErr != nil {
			return nil, multierror.Append(ErrAllSourcesFailed, err, localErr)
		}
	}

	result := &Result{
		Numbers:    numbers,
		NumBits:    numBits,
		NumSamples: numSamples,
		Source:     source,
		Stats:      computeStats(numbers),
		Entropy:    computeEntropy(numbers),
		Generated:  time.Now().UTC(),
	}
	commit(result)
	generationDuration.UpdateDuration(started)

	log.Tracer(ctx).Debugf("generator: generated %d %d-bit numbers from %s source", numSamples, numBits, source)
	return result, nil
}

// commit publishes a finished result: cache, history, metrics, event.
func commit(result *Result) {
	setLast(result)
	addHistory(result)

	switch result.Source {
	case SourceRemote:
		remoteGenerations.Inc()
	case SourceLocal:
		localGenerations.Inc()
	}

	module.TriggerEvent(generationEvent, result)
}
