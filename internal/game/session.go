// Package game ties a saved world, its terrain and a player into a
// headless play session.
package game

import (
	"fmt"
	"log"

	"cubecraft/internal/block"
	"cubecraft/internal/config"
	"cubecraft/internal/inventory"
	"cubecraft/internal/meshing"
	"cubecraft/internal/player"
	"cubecraft/internal/profiling"
	"cubecraft/internal/savefile"
	"cubecraft/internal/world"
)

// Session runs one save headless: it owns the world, the player and the
// save file they are written back to.
type Session struct {
	World  *world.World
	Player *player.Player
	Save   *savefile.SaveFile

	store    *savefile.Store
	settings config.Settings
	logger   *log.Logger
	frames   int
	closed   bool
}

// NewGenerator returns the terrain generator selected by settings.
func NewGenerator(s config.Settings, seed uint16) world.TerrainGenerator {
	if s.World.Generator == config.GeneratorFlat {
		return world.NewFlatGenerator(s.World.FlatHeight, block.Grass)
	}
	return world.NewGenerator(seed)
}

// OpenWorld builds the world described by sf.
func OpenWorld(s config.Settings, sf *savefile.SaveFile, logger *log.Logger) (*world.World, error) {
	seed := sf.WorldSeed()
	return world.New(world.Options{
		Seed:          seed,
		Generator:     NewGenerator(s, seed),
		Modifications: sf.Modifications,
		TableWidth:    s.World.TableWidth,
		MaxFaces:      s.Mesh.MaxFaces,
		Logger:        logger,
		Verbose:       s.Log.Verbose,
	})
}

func playerSettings(s config.Settings) player.Settings {
	return player.Settings{
		EyeLevel:     s.Player.EyeLevel,
		SelectRadius: s.Player.SelectRadius,
		JumpVelocity: s.Player.JumpVelocity,
		Gravity:      s.Player.Gravity,
	}
}

// Open loads the save named name and spawns the player at its spawn point.
func Open(store *savefile.Store, name string, s config.Settings, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}
	sf, err := store.Load(name)
	if err != nil {
		return nil, err
	}
	inv := inventory.New()
	if err := inv.Restore(sf.Inventory); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	w, err := OpenWorld(s, sf, logger)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	p := player.New(playerSettings(s), inv)
	p.Spawn(w, sf.Spawn)
	logger.Printf("game: %s spawned at %v", name, p.SpawnPoint())

	return &Session{
		World:    w,
		Player:   p,
		Save:     sf,
		store:    store,
		settings: s,
		logger:   logger,
	}, nil
}

// Frame advances the player by one input and returns the meshes in render
// range. Failed edits are logged. The error reports chunks whose mesh
// exceeded the face budget; the returned meshes are still usable.
func (s *Session) Frame(in player.Input) ([]*meshing.Mesh, error) {
	profiling.ResetFrame()
	if err := s.Player.Update(s.World, in); err != nil {
		s.logger.Printf("game: frame %d: %v", s.frames, err)
	}
	s.frames++
	pos := s.Player.Position
	return s.World.MeshesAround(pos.X(), pos.Z(), s.settings.World.RenderRange)
}

// Frames returns the number of frames played.
func (s *Session) Frames() int {
	return s.frames
}

// SaveState writes the player's position, inventory and the edit log back to
// the store.
func (s *Session) SaveState() error {
	s.Save.Spawn = s.Player.SpawnPoint()
	s.Save.Inventory = s.Player.Inventory.Snapshot()
	s.Save.Modifications = s.World.Modifications()
	if err := s.store.Save(s.Save); err != nil {
		return fmt.Errorf("save %s: %w", s.Save.Name, err)
	}
	return nil
}

// Close saves and releases the world. Calling it twice is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.SaveState()
	s.World.Close()
	if top := profiling.TopN(3); top != "" {
		s.logger.Printf("game: %d frames, last frame: %s", s.frames, top)
	}
	return err
}
