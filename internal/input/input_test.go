package input

import (
	"testing"

	"cubecraft/internal/player"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unstick removes the deadzone shift from a raw deflection.
func unstick(v int) int {
	switch {
	case v > player.StickDeadzone:
		return v - player.StickDeadzone
	case v < -player.StickDeadzone:
		return v + player.StickDeadzone
	}
	return 0
}

func drain(s *Script) []player.Input {
	var out []player.Input
	for {
		in, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, in)
	}
}

func TestParseAndReplay(t *testing.T) {
	s, err := Parse("forward 3; jump ;; Break; wait 2; place; next; prev; left; back 2; right")
	require.NoError(t, err)
	assert.Equal(t, 14, s.Frames())

	frames := drain(s)
	require.Len(t, frames, 14)
	for _, in := range frames[:3] {
		assert.Equal(t, player.Input{MoveY: FullStick}, in)
	}
	assert.Equal(t, player.Input{Jump: true}, frames[3])
	assert.Equal(t, player.Input{Break: true}, frames[4])
	assert.Equal(t, player.Input{}, frames[5])
	assert.Equal(t, player.Input{}, frames[6])
	assert.Equal(t, player.Input{Place: true}, frames[7])
	assert.Equal(t, player.Input{NextSlot: true}, frames[8])
	assert.Equal(t, player.Input{PrevSlot: true}, frames[9])
	assert.Equal(t, player.Input{MoveX: -FullStick}, frames[10])
	assert.Equal(t, player.Input{MoveY: -FullStick}, frames[12])
	assert.Equal(t, player.Input{MoveX: FullStick}, frames[13])

	_, ok := s.Next()
	assert.False(t, ok)
}

func TestLookTurnsExactly(t *testing.T) {
	s, err := Parse("look 90 -45")
	require.NoError(t, err)
	frames := drain(s)
	assert.Equal(t, 33, len(frames))

	yaw, pitch := 0, 0
	for _, in := range frames {
		assert.LessOrEqual(t, in.LookX, FullStick)
		yaw += unstick(in.LookX)
		pitch += unstick(in.LookY)
	}
	assert.Equal(t, 90*player.LookDivisor, yaw)
	assert.Equal(t, -45*player.LookDivisor, pitch)
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"fly 3",
		"forward x",
		"forward 0",
		"forward 1 2",
		"jump 2",
		"look",
		"look a",
		"look 1 2 3",
	} {
		_, err := Parse(src)
		assert.ErrorIs(t, err, ErrSyntax, src)
	}
}

func TestEmptyScript(t *testing.T) {
	s, err := Parse("  ")
	require.NoError(t, err)
	assert.Zero(t, s.Frames())
	_, ok := s.Next()
	assert.False(t, ok)
}
