package player

// Raw stick values are signed offsets from centre. Values within
// StickDeadzone of zero are ignored.
const (
	StickDeadzone = 15
	LookDivisor   = 40   // stick units per degree
	MoveDivisor   = 1000 // stick units per block
)

// Input is one frame of controller state. Button fields are edge-triggered:
// true only on the frame the button went down.
type Input struct {
	LookX, LookY int // right stick
	MoveX, MoveY int // left stick; +Y is forward

	Jump     bool
	Break    bool
	Place    bool
	PrevSlot bool
	NextSlot bool
}

// clampStick removes the deadzone and shifts the remainder toward zero.
func clampStick(value, deadzone int) int {
	switch {
	case value > deadzone:
		return value - deadzone
	case value < -deadzone:
		return value + deadzone
	}
	return 0
}

func (in Input) look() (yaw, pitch float32) {
	return float32(clampStick(in.LookX, StickDeadzone)) / LookDivisor,
		float32(clampStick(in.LookY, StickDeadzone)) / LookDivisor
}

func (in Input) move() (right, forward float32) {
	return float32(clampStick(in.MoveX, StickDeadzone)) / MoveDivisor,
		float32(clampStick(in.MoveY, StickDeadzone)) / MoveDivisor
}
