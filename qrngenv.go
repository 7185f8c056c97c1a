package main

import (
	"os"

	"github.com/saradhi4688/qrngenv/info"
	"github.com/saradhi4688/qrngenv/run"

	// Service modules.
	_ "github.com/saradhi4688/qrngenv/api"
	_ "github.com/saradhi4688/qrngenv/archive"
	_ "github.com/saradhi4688/qrngenv/metrics"

	// Storage backends.
	_ "github.com/saradhi4688/qrngenv/storage/badger"
	_ "github.com/saradhi4688/qrngenv/storage/bbolt"
	_ "github.com/saradhi4688/qrngenv/storage/hashmap"
)

func main() {
	// Set Info
	info.Set("QRNGEnv", "0.1.0", "GPLv3")

	// Run
	os.Exit(run.Run())
}
