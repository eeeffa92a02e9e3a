package app

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnknownCommand is returned for input ParseCommand does not recognize.
var ErrUnknownCommand = errors.New("unknown command")

// Op identifies a playback command.
type Op int

const (
	OpToggle Op = iota + 1
	OpForward
	OpBack
	OpSpeed
	OpVolume
	OpSeek
	OpStatus
	OpQuit
)

// Command is one line of playback input.
type Command struct {
	Op    Op
	Value float64
}

// ParseCommand parses a playback command line:
//
//	p          toggle play/pause
//	f, b       skip forward/back
//	s <x>      speed multiplier
//	v <0-100>  volume percent
//	g <sec>    seek to seconds
//	i          show status
//	q          quit
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, ErrUnknownCommand
	}

	name := strings.ToLower(fields[0])
	var op Op
	needsArg := false
	switch name {
	case "p", "play", "pause":
		op = OpToggle
	case "f", "forward":
		op = OpForward
	case "b", "back":
		op = OpBack
	case "s", "speed":
		op, needsArg = OpSpeed, true
	case "v", "volume":
		op, needsArg = OpVolume, true
	case "g", "seek":
		op, needsArg = OpSeek, true
	case "i", "info":
		op = OpStatus
	case "q", "quit":
		op = OpQuit
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}

	if !needsArg {
		if len(fields) > 1 {
			return Command{}, fmt.Errorf("%s takes no argument", name)
		}
		return Command{Op: op}, nil
	}

	if len(fields) != 2 {
		return Command{}, fmt.Errorf("%s needs one number", name)
	}
	value, err := strconv.ParseFloat(strings.TrimSuffix(fields[1], "x"), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return Command{}, fmt.Errorf("%s: invalid number %q", name, fields[1])
	}
	if op == OpVolume {
		value /= 100
	}
	return Command{Op: op, Value: value}, nil
}
