package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"p", Command{Op: OpToggle}},
		{"  pause ", Command{Op: OpToggle}},
		{"f", Command{Op: OpForward}},
		{"b", Command{Op: OpBack}},
		{"s 1.5", Command{Op: OpSpeed, Value: 1.5}},
		{"s 2x", Command{Op: OpSpeed, Value: 2}},
		{"v 50", Command{Op: OpVolume, Value: 0.5}},
		{"g 90", Command{Op: OpSeek, Value: 90}},
		{"i", Command{Op: OpStatus}},
		{"Q", Command{Op: OpQuit}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	_, err := ParseCommand("")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = ParseCommand("x")
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = ParseCommand("s")
	assert.ErrorContains(t, err, "needs one number")

	_, err = ParseCommand("s fast")
	assert.ErrorContains(t, err, "invalid number")

	for _, line := range []string{"s nan", "g NaN", "v inf", "g -Inf", "s +infx"} {
		_, err = ParseCommand(line)
		assert.ErrorContains(t, err, "invalid number", line)
	}

	_, err = ParseCommand("p now")
	assert.ErrorContains(t, err, "takes no argument")
}
