// Package input turns scripted controller actions into per-frame
// player.Input values for headless runs.
package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cubecraft/internal/player"
)

// Action represents a logical game action, not a physical control.
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionJump
	ActionBreak
	ActionPlace
	ActionPrevSlot
	ActionNextSlot
	ActionLook
	ActionWait
	ActionCount // Sentinel value for array sizing
)

// FullStick is the stick deflection used for scripted movement.
const FullStick = 127

// ErrSyntax is wrapped by every Parse failure.
var ErrSyntax = errors.New("input: bad script")

var actionNames = map[string]Action{
	"forward": ActionMoveForward,
	"back":    ActionMoveBackward,
	"left":    ActionMoveLeft,
	"right":   ActionMoveRight,
	"jump":    ActionJump,
	"break":   ActionBreak,
	"place":   ActionPlace,
	"prev":    ActionPrevSlot,
	"next":    ActionNextSlot,
	"look":    ActionLook,
	"wait":    ActionWait,
}

// Step holds an action for Frames frames. Look steps turn by Yaw and Pitch
// degrees spread over their frames.
type Step struct {
	Action     Action
	Frames     int
	Yaw, Pitch float32
}

// Script replays steps one frame at a time.
type Script struct {
	steps []Step
	step  int
	frame int
}

// Parse reads a script of ';'-separated steps:
//
//	forward 20; jump; look 90 -10; break; wait 5
//
// Movement and wait take an optional frame count (default 1). look takes a
// yaw and an optional pitch in degrees. Buttons last one frame.
func Parse(src string) (*Script, error) {
	var steps []Step
	for i, raw := range strings.Split(src, ";") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		action, ok := actionNames[strings.ToLower(fields[0])]
		if !ok {
			return nil, fmt.Errorf("%w: step %d: unknown action %q", ErrSyntax, i+1, fields[0])
		}
		st, err := parseStep(action, fields[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrSyntax, i+1, err)
		}
		steps = append(steps, st)
	}
	return &Script{steps: steps}, nil
}

func parseStep(action Action, args []string) (Step, error) {
	st := Step{Action: action, Frames: 1}
	switch action {
	case ActionLook:
		if len(args) < 1 || len(args) > 2 {
			return st, errors.New("look wants a yaw and an optional pitch")
		}
		vals := make([]float32, 2)
		for i, a := range args {
			v, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return st, err
			}
			vals[i] = float32(v)
		}
		st.Yaw, st.Pitch = vals[0], vals[1]
		st.Frames = lookFrames(st.Yaw, st.Pitch)
	case ActionMoveForward, ActionMoveBackward, ActionMoveLeft, ActionMoveRight, ActionWait:
		if len(args) > 1 {
			return st, errors.New("too many arguments")
		}
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return st, fmt.Errorf("bad frame count %q", args[0])
			}
			st.Frames = n
		}
	default:
		if len(args) != 0 {
			return st, errors.New("buttons take no arguments")
		}
	}
	return st, nil
}

// maxLookPerFrame is the turn in degrees produced by a full stick.
const maxLookPerFrame = float32(FullStick-player.StickDeadzone) / player.LookDivisor

func lookFrames(yaw, pitch float32) int {
	m := max(abs(yaw), abs(pitch))
	n := int(m / maxLookPerFrame)
	if float32(n)*maxLookPerFrame < m {
		n++
	}
	return max(n, 1)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// stick returns the raw deflection that turns by units/LookDivisor degrees.
func stick(units int) int {
	switch {
	case units > 0:
		return units + player.StickDeadzone
	case units < 0:
		return units - player.StickDeadzone
	}
	return 0
}

// spread returns frame's share of total when split over n frames. The
// shares sum to total exactly.
func spread(total, frame, n int) int {
	return total*(frame+1)/n - total*frame/n
}

// Frames returns the total number of frames the script lasts.
func (s *Script) Frames() int {
	n := 0
	for _, st := range s.steps {
		n += st.Frames
	}
	return n
}

// Next returns the input for the next frame, or false when the script is
// finished.
func (s *Script) Next() (player.Input, bool) {
	if s.step >= len(s.steps) {
		return player.Input{}, false
	}
	st := s.steps[s.step]
	in := st.input(s.frame)
	s.frame++
	if s.frame >= st.Frames {
		s.step++
		s.frame = 0
	}
	return in, true
}

func (st Step) input(frame int) player.Input {
	var in player.Input
	switch st.Action {
	case ActionMoveForward:
		in.MoveY = FullStick
	case ActionMoveBackward:
		in.MoveY = -FullStick
	case ActionMoveLeft:
		in.MoveX = -FullStick
	case ActionMoveRight:
		in.MoveX = FullStick
	case ActionJump:
		in.Jump = true
	case ActionBreak:
		in.Break = true
	case ActionPlace:
		in.Place = true
	case ActionPrevSlot:
		in.PrevSlot = true
	case ActionNextSlot:
		in.NextSlot = true
	case ActionLook:
		yaw := int(math.Round(float64(st.Yaw * player.LookDivisor)))
		pitch := int(math.Round(float64(st.Pitch * player.LookDivisor)))
		in.LookX = stick(spread(yaw, frame, st.Frames))
		in.LookY = stick(spread(pitch, frame, st.Frames))
	}
	return in
}
