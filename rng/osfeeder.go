package rng

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"
)

// osFeeder periodically feeds entropy from the operating system to the RNG.
func osFeeder(ctx context.Context) error {
	feeder := NewFeeder()
	for {
		// get feed entropy size
		minEntropyBytes := int(minFeedEntropy())/8 + 1
		if minEntropyBytes < 32 {
			minEntropyBytes = 64
		}

		// get entropy
		osEntropy := make([]byte, minEntropyBytes)
		n, err := rand.Read(osEntropy)
		if err != nil {
			return fmt.Errorf("could not read entropy from os: %w", err)
		}
		if n != minEntropyBytes {
			return fmt.Errorf("could not read enough entropy from os: got only %d bytes instead of %d", n, minEntropyBytes)
		}

		// feed
		feeder.SupplyEntropy(osEntropy, minEntropyBytes*8)

		// wait before fetching more os entropy, the tick feeder
		// bridges the gaps
		select {
		case <-time.After(10 * time.Second):
		case <-ctx.Done():
			return nil
		}
	}
}
