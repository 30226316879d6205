package player

import (
	"errors"
	"math"

	"cubecraft/internal/block"
	"cubecraft/internal/inventory"
	"cubecraft/internal/physics"
	"cubecraft/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// World is what the player reads and edits.
type World interface {
	physics.Terrain
	Block(x, y, z int) block.Type
	SetBlock(x, y, z int, t block.Type) error
}

// Settings tunes movement and reach.
type Settings struct {
	EyeLevel     float32
	SelectRadius float32
	JumpVelocity float32
	Gravity      float32 // subtracted from the vertical velocity each midair frame
}

// DefaultSettings returns the stock movement and selection tuning.
func DefaultSettings() Settings {
	return Settings{
		EyeLevel:     1.5,
		SelectRadius: 4,
		JumpVelocity: 0.18,
		Gravity:      0.01,
	}
}

// Player is the first-person body: position, look angles, physics state,
// the current block selection and the inventory.
type Player struct {
	Position  mgl32.Vec3 // feet, centre of the bounding prism
	Yaw       float32    // degrees, positive looks right, wrapped to [-180, 180]
	Pitch     float32    // degrees, positive looks up, clamped to [-90, 90]
	Body      physics.Body
	Selection physics.Selection
	Inventory *inventory.Inventory

	settings Settings
}

// New returns a player at the origin. A nil inv gets a fresh inventory.
// Call Spawn before the first Update.
func New(settings Settings, inv *inventory.Inventory) *Player {
	if inv == nil {
		inv = inventory.New()
	}
	return &Player{settings: settings, Inventory: inv}
}

// Spawn places p in the middle of the spawn column, standing on the first
// solid block at or below spawn[1].
func (p *Player) Spawn(w World, spawn [3]int) {
	y := min(spawn[1], physics.MaxY-1)
	for ; y >= 0; y-- {
		if w.IsSolid(spawn[0], y, spawn[2]) {
			break
		}
	}
	p.Position = mgl32.Vec3{float32(spawn[0]) + 0.5, float32(y + 1), float32(spawn[2]) + 0.5}
	p.Yaw, p.Pitch = 0, 0
	p.Body = physics.Body{State: physics.Standing}
	p.Selection = physics.Selection{}
	p.Inventory.Current = 0
}

// SpawnPoint returns the block the player is in, for saving.
func (p *Player) SpawnPoint() [3]int {
	return [3]int{
		int(math.Floor(float64(p.Position.X()))),
		int(math.Floor(float64(p.Position.Y()))),
		int(math.Floor(float64(p.Position.Z()))),
	}
}

// Eye returns the camera position.
func (p *Player) Eye() mgl32.Vec3 {
	return p.Position.Add(mgl32.Vec3{0, p.settings.EyeLevel, 0})
}

// Update advances one frame: actions on the previous frame's selection,
// look, gravity, movement with collision and a fresh selection.
func (p *Player) Update(w World, in Input) error {
	defer profiling.Track("player.Update")()

	if p.Body.State == physics.Standing && in.Jump {
		p.Body = physics.Body{State: physics.Midair, YVelocity: p.settings.JumpVelocity}
	}

	var err error
	if p.Selection.Hit {
		switch {
		case in.Break:
			err = p.Break(w)
		case in.Place:
			err = p.Place(w)
		}
	}

	switch {
	case in.PrevSlot:
		p.Inventory.Cycle(-1)
	case in.NextSlot:
		p.Inventory.Cycle(1)
	}

	dyaw, dpitch := in.look()
	p.Turn(dyaw, dpitch)

	if p.Body.State == physics.Midair {
		p.Body.YVelocity -= p.settings.Gravity
	}

	right, forward := in.move()
	p.Position, p.Body = physics.ResolveMove(w, p.Position, p.motion(right, forward), p.Body)
	p.Selection = physics.SelectBlock(w, p.Eye(), p.Yaw, p.Pitch, p.settings.SelectRadius)
	return err
}

// Turn adds to yaw and pitch, wrapping yaw and clamping pitch.
func (p *Player) Turn(dyaw, dpitch float32) {
	p.Yaw += dyaw
	p.Pitch += dpitch
	if p.Yaw > 180 {
		p.Yaw -= 360
	} else if p.Yaw < -180 {
		p.Yaw += 360
	}
	p.Pitch = mgl32.Clamp(p.Pitch, -90, 90)
}

// motion converts stick input into a world-space step for this frame.
func (p *Player) motion(right, forward float32) mgl32.Vec3 {
	a := float64(mgl32.DegToRad(p.Yaw + 90))
	sin, cos := float32(math.Sin(a)), float32(math.Cos(a))
	return mgl32.Vec3{
		right*sin - forward*cos,
		p.Body.YVelocity,
		-forward*sin - right*cos,
	}
}

// ErrNothingSelected is returned by Break and Place without a selection.
var ErrNothingSelected = errors.New("player: no block selected")

// Break removes the selected block and stores it in the inventory. A full
// inventory drops the block.
func (p *Player) Break(w World) error {
	if !p.Selection.Hit {
		return ErrNothingSelected
	}
	b := p.Selection.Block
	kind := w.Block(b[0], b[1], b[2])
	if err := w.SetBlock(b[0], b[1], b[2], block.Air); err != nil {
		return err
	}
	p.Inventory.Add(kind)
	p.Selection = physics.Selection{}
	return nil
}

// Place puts one block of the selected inventory kind against the selected
// face. It does nothing when the slot is empty or the target is outside the
// column.
func (p *Player) Place(w World) error {
	if !p.Selection.Hit {
		return ErrNothingSelected
	}
	if p.Inventory.Selected().Empty() {
		return nil
	}
	at := p.Selection.Place()
	if at[1] < physics.MinY || at[1] >= physics.MaxY {
		return nil
	}
	kind, _ := p.Inventory.Take()
	return w.SetBlock(at[0], at[1], at[2], kind)
}
