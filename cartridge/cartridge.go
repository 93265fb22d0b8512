// Package cartridge implements the iNES/NES 2.0 ROM loader: it decodes
// the 16-byte header and exposes a read-only view of the trainer,
// PRG-ROM, and CHR-ROM regions plus cartridge metadata.
// https://www.nesdev.org/wiki/INES, https://www.nesdev.org/wiki/NES_2.0
package cartridge

import (
	"fmt"
	"io"
	"os"
)

const (
	headerSize  = 16
	trainerSize = 512
)

// Cartridge is an immutable, fully decoded ROM image. Once returned
// from Load it is never mutated by this package; PrgRead/ChrRead only
// index into the byte slices captured at load time.
type Cartridge struct {
	header  *Header
	trainer []byte // len == trainerSize if Header.Trainer, else nil
	prg     []byte // len == Header.PRGSize
	chr     []byte // len == Header.CHRSize; 0 means CHR-RAM is in use
}

// Load reads a ROM image from path, decodes its header, and slices out
// the trainer (if present), PRG-ROM, and CHR-ROM regions.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	return load(f)
}

// LoadFromReader is Load without a filesystem path, for callers (and
// tests, including other packages') that already have ROM bytes in
// memory.
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	return load(r)
}

func load(r io.Reader) (*Cartridge, error) {
	var hb [headerSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrIO, err)
	}

	h, err := parseHeader(hb)
	if err != nil {
		return nil, err
	}

	c := &Cartridge{header: h}

	if h.Trainer {
		c.trainer = make([]byte, trainerSize)
		if _, err := io.ReadFull(r, c.trainer); err != nil {
			return nil, fmt.Errorf("%w: reading trainer: %v", ErrSizeMismatch, err)
		}
	}

	c.prg = make([]byte, h.PRGSize)
	if _, err := io.ReadFull(r, c.prg); err != nil {
		return nil, fmt.Errorf("%w: reading PRG-ROM (want %d bytes): %v", ErrSizeMismatch, h.PRGSize, err)
	}

	if h.CHRSize > 0 {
		c.chr = make([]byte, h.CHRSize)
		if _, err := io.ReadFull(r, c.chr); err != nil {
			return nil, fmt.Errorf("%w: reading CHR-ROM (want %d bytes): %v", ErrSizeMismatch, h.CHRSize, err)
		}
	}

	// Miscellaneous ROMs, if any, follow here and are intentionally
	// ignored per spec.

	return c, nil
}

// Header returns the decoded header metadata.
func (c *Cartridge) Header() *Header { return c.header }

func (c *Cartridge) Format() Format         { return c.header.Format }
func (c *Cartridge) MapperID() uint16       { return c.header.MapperID }
func (c *Cartridge) SubmapperID() uint8     { return c.header.SubmapperID }
func (c *Cartridge) Mirroring() Mirroring   { return c.header.Mirroring }
func (c *Cartridge) Battery() bool          { return c.header.Battery }
func (c *Cartridge) HasTrainer() bool       { return c.header.Trainer }
func (c *Cartridge) Console() ConsoleType   { return c.header.Console }
func (c *Cartridge) Timing() Timing         { return c.header.Timing }
func (c *Cartridge) PRGSize() uint64        { return c.header.PRGSize }
func (c *Cartridge) CHRSize() uint64        { return c.header.CHRSize }
func (c *Cartridge) UsesCHRRAM() bool       { return c.header.CHRSize == 0 }

// Trainer returns the 512-byte trainer block, or nil if the cartridge
// has none.
func (c *Cartridge) Trainer() []byte { return c.trainer }

// PrgRead returns the byte at offset addr within PRG-ROM. addr is an
// offset from the start of the PRG window (bus.Bus.readCartridge passes
// the CPU address minus 0x8000), not a raw CPU address. Offsets past the
// end of PRG-ROM wrap modulo its length, which mirrors a single 16 KiB
// NROM bank across the full 32 KiB window.
func (c *Cartridge) PrgRead(addr uint32) uint8 {
	if len(c.prg) == 0 {
		return 0
	}
	return c.prg[addr%uint32(len(c.prg))]
}

// ChrRead returns the byte at offset addr within CHR-ROM. Callers
// should check UsesCHRRAM first; this returns 0 for all offsets when
// there is no CHR-ROM.
func (c *Cartridge) ChrRead(addr uint32) uint8 {
	if len(c.chr) == 0 {
		return 0
	}
	return c.chr[addr%uint32(len(c.chr))]
}

// PrgLen reports the size of PRG-ROM in bytes.
func (c *Cartridge) PrgLen() int { return len(c.prg) }
