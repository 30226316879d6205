package savefile

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cubecraft/internal/inventory"
	"cubecraft/internal/world"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Version is the current on-disk format.
const Version = 1

const (
	MaxNameLen = 15
	MaxSeedLen = 15
)

// DefaultSpawn is where new worlds start; the player drops to the surface.
var DefaultSpawn = [3]int{5, 200, 5}

var (
	ErrExists      = errors.New("savefile: world already exists")
	ErrNotFound    = errors.New("savefile: world not found")
	ErrInvalidName = errors.New("savefile: invalid world name")
	ErrInvalidSeed = errors.New("savefile: invalid seed")
	ErrVersion     = errors.New("savefile: unsupported version")
	ErrCorrupt     = errors.New("savefile: corrupt save")
)

// Header is the JSON line at the start of every save. It can be read
// without decoding the body.
type Header struct {
	Version int    `json:"version"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Seed    string `json:"seed"`
}

// SaveFile is everything persisted for one world. Terrain itself is not
// stored: it is regenerated from Seed and Modifications are replayed.
type SaveFile struct {
	ID            uuid.UUID
	Name          string
	Seed          string
	Spawn         [3]int
	Inventory     []inventory.Slot
	Modifications []world.ChunkModification
}

// New returns an empty save with a fresh ID.
func New(name, seed string) (*SaveFile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}
	return &SaveFile{
		ID:    uuid.New(),
		Name:  name,
		Seed:  seed,
		Spawn: DefaultSpawn,
	}, nil
}

// WorldSeed folds the seed string into the generator seed.
func (sf *SaveFile) WorldSeed() uint16 {
	return world.SeedFromString(sf.Seed)
}

// Header returns the header line for sf.
func (sf *SaveFile) Header() Header {
	return Header{Version: Version, ID: sf.ID.String(), Name: sf.Name, Seed: sf.Seed}
}

// ValidateName accepts 1 to MaxNameLen letters, digits, spaces, '-' or '_'.
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return fmt.Errorf("%w: %q must be 1-%d characters", ErrInvalidName, name, MaxNameLen)
	}
	for _, r := range name {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			r == ' ' || r == '-' || r == '_'
		if !ok {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, r)
		}
	}
	if name[0] == ' ' || name[len(name)-1] == ' ' {
		return fmt.Errorf("%w: %q has surrounding spaces", ErrInvalidName, name)
	}
	return nil
}

// ValidateSeed accepts up to MaxSeedLen printable ASCII characters.
func ValidateSeed(seed string) error {
	if len(seed) > MaxSeedLen {
		return fmt.Errorf("%w: longer than %d characters", ErrInvalidSeed, MaxSeedLen)
	}
	for i := 0; i < len(seed); i++ {
		if seed[i] < 0x20 || seed[i] > 0x7e {
			return fmt.Errorf("%w: byte %#x at %d", ErrInvalidSeed, seed[i], i)
		}
	}
	return nil
}

// Encode writes sf as a zstd stream holding the JSON header line followed
// by the gob-encoded body.
func Encode(w io.Writer, sf *SaveFile) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, err := json.Marshal(sf.Header())
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(sf); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func readHeader(br *bufio.Reader) (Header, error) {
	var h Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if h.Version != Version {
		return h, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	return h, nil
}

// ReadHeader decodes only the header line.
func ReadHeader(r io.Reader) (Header, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return Header{}, err
	}
	defer dec.Close()
	return readHeader(bufio.NewReader(dec))
}

// Decode reads a save written by Encode.
func Decode(r io.Reader) (*SaveFile, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	var sf SaveFile
	if err := gob.NewDecoder(br).Decode(&sf); err != nil {
		return nil, fmt.Errorf("%w: gob decode: %v", ErrCorrupt, err)
	}
	if h.ID != sf.ID.String() || h.Name != sf.Name {
		return nil, fmt.Errorf("%w: header names %s/%q, body %s/%q", ErrCorrupt, h.ID, h.Name, sf.ID, sf.Name)
	}
	return &sf, nil
}
