//go:build windows

package log

const rightArrow = ">"

// Colors are disabled on windows, as the default terminal does not reliably
// support ANSI escape codes.

func (s Severity) color() string {
	return ""
}

func endColor() string {
	return ""
}
