// Package bus implements the NES CPU memory map: a 16-bit address
// space with fixed regions (internal RAM, RAM mirrors, PPU registers
// and mirrors, APU/IO registers, cartridge space) routed through a
// single Read/Write interface.
// https://www.nesdev.org/wiki/CPU_memory_map
package bus

import (
	"fmt"

	"github.com/bdwalton/nescore/cartridge"
)

const (
	ramSize = 0x0800 // 2 KiB of internal RAM

	ramMirrorEnd  = 0x1FFF
	ppuRegStart   = 0x2000
	ppuRegEnd     = 0x2007
	ppuMirrorEnd  = 0x3FFF
	apuIOStart    = 0x4000
	apuIOEnd      = 0x4017
	oamDMAReg     = 0x4014
	testRegStart  = 0x4018
	testRegEnd    = 0x401F
	cartridgeLow  = 0x4020
	prgRAMStart   = 0x6000
	prgRAMEnd     = 0x7FFF
	prgROMStart   = 0x8000
	addressSpace  = 0x10000
	prgRAMSize    = 0x2000 // 8 KiB, present only on battery-backed NROM boards
)

// OAMDATA is the PPU register OAM DMA copies into, once per copied
// byte. It matches the PPU's $2004 port.
const OAMDATA = 0x2004

// Bus is the console's CPU-side memory map. It holds a non-owning
// reference to the inserted cartridge (ownership is console → bus,
// console → cartridge — never bus → cartridge → bus) and forwards
// PPU/APU register accesses to whichever ports were wired in.
type Bus struct {
	ram     [ramSize]byte
	prgRAM  []byte // nil unless the cartridge is battery-backed
	cart    *cartridge.Cartridge
	mapper  uint16
	ppu     PPUPort
	apu     APUPort

	lastBusValue uint8 // last byte driven on the bus by any read or write
	dmaStall     int   // cycles the CPU should burn for the OAM DMA it just triggered
}

// New constructs a Bus wired to cart. ppu and apu may be nil, in which
// case open-bus stand-ins are used. Only mapper 0 (NROM) is supported;
// any other mapper id makes New return an error wrapping
// cartridge.ErrUnsupportedMapper.
func New(cart *cartridge.Cartridge, ppu PPUPort, apu APUPort) (*Bus, error) {
	if cart.MapperID() != 0 {
		return nil, fmt.Errorf("%w: mapper %d", cartridge.ErrUnsupportedMapper, cart.MapperID())
	}

	if ppu == nil {
		ppu = &OpenBusPPU{}
	}
	if apu == nil {
		apu = &OpenBusAPU{}
	}

	b := &Bus{cart: cart, mapper: cart.MapperID(), ppu: ppu, apu: apu}
	if cart.Battery() {
		b.prgRAM = make([]byte, prgRAMSize)
	}

	return b, nil
}

// Read returns the byte at addr, routing through mirrors and
// collaborators per the CPU memory map.
func (b *Bus) Read(addr uint16) uint8 {
	var v uint8

	switch {
	case addr <= ramMirrorEnd:
		v = b.ram[addr%ramSize]
	case addr <= ppuMirrorEnd:
		v = b.ppu.ReadRegister(ppuRegStart + (addr-ppuRegStart)%8)
	case addr <= apuIOEnd:
		v = b.apu.ReadRegister(addr)
	case addr <= testRegEnd:
		v = b.lastBusValue // disabled APU/IO test registers: open bus
	case addr >= prgRAMStart && addr <= prgRAMEnd:
		v = b.readPrgRAM(addr)
	default: // cartridgeLow..0xFFFF, including the PRG-ROM window
		v = b.readCartridge(addr)
	}

	b.lastBusValue = v
	return v
}

// Write stores v at addr, routing the same way as Read, except that a
// write to 0x4014 is not forwarded to the APU port; it triggers OAM
// DMA instead: 256 bytes starting at
// val<<8 are copied into the PPU's OAM port, and the CPU is expected
// to burn the stall cycles reported by TakeDMAStallCycles after its
// next bus operation completes.
func (b *Bus) Write(addr uint16, v uint8) {
	b.lastBusValue = v

	switch {
	case addr <= ramMirrorEnd:
		b.ram[addr%ramSize] = v
	case addr <= ppuMirrorEnd:
		b.ppu.WriteRegister(ppuRegStart+(addr-ppuRegStart)%8, v)
	case addr == oamDMAReg:
		b.runOAMDMA(v)
	case addr <= apuIOEnd:
		b.apu.WriteRegister(addr, v)
	case addr <= testRegEnd:
		// disabled APU/IO test registers: writes are ignored
	case addr >= prgRAMStart && addr <= prgRAMEnd:
		b.writePrgRAM(addr, v)
	default:
		// Cartridge space is read-only PRG-ROM through this
		// interface for mapper 0; writes are dropped.
	}
}

func (b *Bus) readPrgRAM(addr uint16) uint8 {
	if b.prgRAM == nil {
		return b.lastBusValue
	}
	return b.prgRAM[addr-prgRAMStart]
}

func (b *Bus) writePrgRAM(addr uint16, v uint8) {
	if b.prgRAM == nil {
		return
	}
	b.prgRAM[addr-prgRAMStart] = v
}

// readCartridge maps a CPU address in [0x8000, 0xFFFF] into the
// cartridge's PRG-ROM, folding 16 KiB images across the full 32 KiB
// window (NROM-128 boards mirror their single bank into both halves).
// Addresses below 0x8000 that aren't PRG-RAM (0x4020-0x5FFF) have no
// NROM destination and read as open bus.
func (b *Bus) readCartridge(addr uint16) uint8 {
	if addr < prgROMStart {
		return b.lastBusValue
	}
	return b.cart.PrgRead(uint32(addr - prgROMStart))
}

// runOAMDMA copies the 256-byte page starting at page<<8 into the
// PPU's OAM register and records the stall the CPU must honor: 513
// cycles normally, 514 if triggered on an odd CPU cycle. This module
// doesn't track a global cycle parity on its own (that's the CPU's
// job); mos6502.CPU adds the +1 itself when it takes the stall, and
// other hosts can add it via AddOddCycleStall.
func (b *Bus) runOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteRegister(OAMDATA, b.Read(base+uint16(i)))
	}
	b.dmaStall += 513
}

// AddOddCycleStall adds the extra DMA cycle incurred when OAM DMA is
// triggered on an odd CPU cycle, for hosts that track cycle parity
// outside the CPU. mos6502.CPU does not call it: it adds that cycle
// itself when the triggering write happens on an odd cycle count.
func (b *Bus) AddOddCycleStall() {
	b.dmaStall++
}

// TakeDMAStallCycles returns and clears the number of cycles
// accumulated by OAM DMA since the last call.
func (b *Bus) TakeDMAStallCycles() int {
	n := b.dmaStall
	b.dmaStall = 0
	return n
}

// LastBusValue returns the last byte driven on the bus by any read or
// write, the value served for open-bus addresses.
func (b *Bus) LastBusValue() uint8 { return b.lastBusValue }

// Mirroring reports the cartridge's nametable mirroring mode, for a
// PPU collaborator to consult.
func (b *Bus) Mirroring() cartridge.Mirroring { return b.cart.Mirroring() }
