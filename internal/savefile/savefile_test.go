package savefile

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"cubecraft/internal/block"
	"cubecraft/internal/inventory"
	"cubecraft/internal/world"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openWorld(t *testing.T, sf *SaveFile) *world.World {
	t.Helper()
	w, err := world.New(world.Options{
		Seed:          sf.WorldSeed(),
		Modifications: sf.Modifications,
		Logger:        log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w
}

func TestRoundTripMatchesEditedWorld(t *testing.T) {
	sf, err := New("Test World", "gamecube")
	require.NoError(t, err)

	edited := openWorld(t, sf)
	edits := []struct {
		x, y, z int
		t       block.Type
	}{
		{1, 70, 1, block.Wood},
		{-20, 66, 35, block.Stone},
		{15, 80, 0, block.Leaves},
		{1, 70, 1, block.Air},
	}
	for _, e := range edits {
		require.NoError(t, edited.SetBlock(e.x, e.y, e.z, e.t))
	}
	sf.Modifications = edited.Modifications()
	sf.Spawn = [3]int{-3, 71, 12}
	sf.Inventory = []inventory.Slot{{Type: block.Dirt, Count: 42}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sf))
	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, sf.ID, got.ID)
	assert.Equal(t, sf.Name, got.Name)
	assert.Equal(t, sf.Spawn, got.Spawn)
	assert.Equal(t, sf.Inventory, got.Inventory)
	assert.Equal(t, sf.Modifications, got.Modifications)

	reloaded := openWorld(t, got)
	for _, e := range edits {
		assert.Equal(t, edited.Block(e.x, e.y, e.z), reloaded.Block(e.x, e.y, e.z),
			"block (%d, %d, %d)", e.x, e.y, e.z)
	}
	assert.Equal(t, block.Air, reloaded.Block(1, 70, 1))
	for _, cc := range []world.ChunkCoord{{X: 0, Z: 0}, {X: -2, Z: 2}, {X: 1, Z: 0}} {
		assert.Equal(t, edited.Chunk(cc.X, cc.Z).Snapshot(), reloaded.Chunk(cc.X, cc.Z).Snapshot(),
			"chunk %v", cc)
	}
}

func TestHeaderIsFirstLine(t *testing.T) {
	sf, err := New("alpha", "s")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sf))

	dec, err := zstd.NewReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer dec.Close()
	raw, err := io.ReadAll(dec)
	require.NoError(t, err)
	line, _, found := bytes.Cut(raw, []byte("\n"))
	require.True(t, found)
	assert.JSONEq(t, `{"version":1,"id":"`+sf.ID.String()+`","name":"alpha","seed":"s"}`, string(line))

	h, err := ReadHeader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, sf.Header(), h)
}

func TestDecodeRejectsBadInput(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not a save")))
	assert.Error(t, err)

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"version":9,"id":"x","name":"n"}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	_, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrVersion)

	buf.Reset()
	enc, err = zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(`{"version":1,"id":"x","name":"n"}` + "\ngarbage"))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	_, err = Decode(&buf)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"a", "My World_2", "fifteen-chars-x"} {
		assert.NoError(t, ValidateName(name), name)
	}
	for _, name := range []string{"", "sixteen-chars-xx", "../etc", "a/b", " lead", "tab\tname"} {
		assert.ErrorIs(t, ValidateName(name), ErrInvalidName, name)
	}
	assert.NoError(t, ValidateSeed(""))
	assert.ErrorIs(t, ValidateSeed("0123456789abcdef"), ErrInvalidSeed)
	assert.ErrorIs(t, ValidateSeed("bell\a"), ErrInvalidSeed)
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "saves"))

	list, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := s.Create("beta", "seed1")
	require.NoError(t, err)
	_, err = s.Create("alpha", "seed2")
	require.NoError(t, err)

	_, err = s.Create("beta", "other")
	assert.ErrorIs(t, err, ErrExists)

	list, err = s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "beta", list[1].Name)
	assert.Equal(t, created.ID.String(), list[1].ID)

	loaded, err := s.Load("beta")
	require.NoError(t, err)
	assert.Equal(t, DefaultSpawn, loaded.Spawn)
	assert.Equal(t, "seed1", loaded.Seed)

	loaded.Spawn = [3]int{1, 2, 3}
	require.NoError(t, s.Save(loaded))
	again, err := s.Load("beta")
	require.NoError(t, err)
	assert.Equal(t, [3]int{1, 2, 3}, again.Spawn)

	require.NoError(t, s.Delete("beta"))
	_, err = s.Load("beta")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("beta"), ErrNotFound)

	_, err = s.Load("../x")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestListSkipsCorruptSaves(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Create("good", "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "bad"+Ext), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "notes.txt"), []byte("ignored"), 0o644))

	list, err := s.List()
	assert.Error(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].Name)
}
