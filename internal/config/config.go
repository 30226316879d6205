package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable consulted when no config path is given.
const EnvPath = "CUBECRAFT_CONFIG"

// Generator kinds accepted in world.generator.
const (
	GeneratorNoise = "noise"
	GeneratorFlat  = "flat"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid settings")

// Settings is the root configuration document.
type Settings struct {
	World  WorldSettings  `yaml:"world"`
	Player PlayerSettings `yaml:"player"`
	Mesh   MeshSettings   `yaml:"mesh"`
	Saves  SaveSettings   `yaml:"saves"`
	Log    LogSettings    `yaml:"log"`
}

type WorldSettings struct {
	TableWidth  int    `yaml:"table_width"`  // chunk table side, power of two
	RenderRange int    `yaml:"render_range"` // in chunks
	Generator   string `yaml:"generator"`
	FlatHeight  int    `yaml:"flat_height"`
}

type PlayerSettings struct {
	SelectRadius float32 `yaml:"select_radius"`
	EyeLevel     float32 `yaml:"eye_level"`
	JumpVelocity float32 `yaml:"jump_velocity"`
	Gravity      float32 `yaml:"gravity"`
}

type MeshSettings struct {
	MaxFaces int `yaml:"max_faces"` // 0 = unlimited
}

type SaveSettings struct {
	Dir string `yaml:"dir"`
}

type LogSettings struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		World: WorldSettings{
			TableWidth:  16,
			RenderRange: 10,
			Generator:   GeneratorNoise,
			FlatHeight:  60,
		},
		Player: PlayerSettings{
			SelectRadius: 4,
			EyeLevel:     1.5,
			JumpVelocity: 0.18,
			Gravity:      0.01,
		},
		Saves: SaveSettings{Dir: "saves"},
	}
}

// Load reads YAML settings over the defaults. If path is empty the
// CUBECRAFT_CONFIG variable is tried; with neither, the defaults are returned.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
		if path == "" {
			return s, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks ranges and cross-field constraints.
func (s Settings) Validate() error {
	w := s.World.TableWidth
	switch {
	case w < 4 || w&(w-1) != 0:
		return fmt.Errorf("%w: world.table_width %d must be a power of two >= 4", ErrInvalid, w)
	case s.World.RenderRange < 1 || s.World.RenderRange >= w:
		return fmt.Errorf("%w: world.render_range %d must be in [1, %d)", ErrInvalid, s.World.RenderRange, w)
	case s.World.Generator != GeneratorNoise && s.World.Generator != GeneratorFlat:
		return fmt.Errorf("%w: world.generator %q", ErrInvalid, s.World.Generator)
	case s.World.FlatHeight < 0 || s.World.FlatHeight > 255:
		return fmt.Errorf("%w: world.flat_height %d", ErrInvalid, s.World.FlatHeight)
	case s.Player.SelectRadius <= 0:
		return fmt.Errorf("%w: player.select_radius must be positive", ErrInvalid)
	case s.Player.EyeLevel <= 0:
		return fmt.Errorf("%w: player.eye_level must be positive", ErrInvalid)
	case s.Player.Gravity < 0 || s.Player.JumpVelocity < 0:
		return fmt.Errorf("%w: player.gravity and player.jump_velocity must not be negative", ErrInvalid)
	case s.Mesh.MaxFaces < 0:
		return fmt.Errorf("%w: mesh.max_faces %d", ErrInvalid, s.Mesh.MaxFaces)
	case s.Saves.Dir == "":
		return fmt.Errorf("%w: saves.dir is empty", ErrInvalid)
	}
	return nil
}

// SetRenderRange sets the render range in chunks, clamped so the visible
// square plus one meshing neighbour fits the chunk table.
func (s *Settings) SetRenderRange(n int) {
	if n < 2 {
		n = 2
	}
	if limit := s.World.TableWidth - 1; n > limit {
		n = limit
	}
	s.World.RenderRange = n
}

// VisibleChunks returns the side of the square of chunks drawn around the
// player: RenderRange/2 chunks on each side of the player's chunk.
func (s Settings) VisibleChunks() int {
	return s.World.RenderRange/2*2 + 1
}
