package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteMetrics(t *testing.T) {
	if err := start(); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	WriteMetrics(buf)
	output := buf.String()

	for _, expected := range []string{
		"qrngenv_info",
		"qrngenv_uptime_seconds",
		"qrngenv_host_mem_total_bytes",
		"go_goroutines",
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("metrics output is missing %s", expected)
		}
	}
}
