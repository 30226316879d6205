package world

// Seeded lattice noise used by the terrain generator. Everything here is a
// pure function of the seed and its inputs so evicted chunks regenerate
// identically.

// Wavelength is the lattice cell size of the height noise, in blocks.
const Wavelength = 32

// Noise hashes coordinates with a 16-bit world seed.
type Noise struct {
	seed uint16
}

// NewNoise returns the noise source for seed.
func NewNoise(seed uint16) Noise {
	return Noise{seed: seed}
}

// Hash mixes a with the seed using a fixed LCG multiplier.
func (n Noise) Hash(a int) uint16 {
	v := uint32(uint16(a) ^ n.seed)
	v = v * 1103515245 >> 16
	return uint16(v)
}

// HashFraction combines the hashes of a and b into a value in [0, 1].
func (n Noise) HashFraction(a, b int) float32 {
	h := n.Hash(a) ^ n.Hash(b)
	return float32(h) / 65535.0
}

func lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// HeightNoise bilinearly interpolates HashFraction over the Wavelength cell
// containing (worldX, worldZ).
func (n Noise) HeightNoise(worldX, worldZ int) float32 {
	x1 := floorDiv(worldX, Wavelength) * Wavelength
	z1 := floorDiv(worldZ, Wavelength) * Wavelength
	x2 := x1 + Wavelength
	z2 := z1 + Wavelength
	xBlend := float32(worldX-x1) / Wavelength
	zBlend := float32(worldZ-z1) / Wavelength

	a := lerp(n.HashFraction(x1, z1), n.HashFraction(x2, z1), xBlend)
	b := lerp(n.HashFraction(x1, z2), n.HashFraction(x2, z2), xBlend)
	return lerp(a, b, zBlend)
}

// SeedFromString folds a save-file seed string into 16 bits: byte i is OR-ed
// in at bit offset (i mod 2) * 8.
func SeedFromString(s string) uint16 {
	var seed uint16
	for i := 0; i < len(s); i++ {
		shift := uint(i%2) * 8
		seed |= uint16(s[i]) << shift
	}
	return seed
}
