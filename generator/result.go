package generator

import "time"

// Source identifies which entropy source produced a result.
type Source string

// Possible result sources.
const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Statistics summarizes the values of one generation. The pointer fields are
// nil, and marshal as null, when no values were generated.
type Statistics struct {
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *uint16  `json:"min"`
	Max   *uint16  `json:"max"`
	Count int      `json:"count"`
}

// Result is one completed generation. It is immutable once committed, share
// freely but do not modify.
type Result struct {
	Numbers    []uint16   `json:"numbers"`
	NumBits    int        `json:"num_bits"`
	NumSamples int        `json:"num_samples"`
	Source     Source     `json:"source"`
	Stats      Statistics `json:"statistics"`
	Entropy    float64    `json:"entropy"`
	Generated  time.Time  `json:"generated"`
}
