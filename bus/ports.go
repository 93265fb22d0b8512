package bus

// PPUPort is the narrow interface the CPU memory map uses to reach the
// picture processing unit. The PPU itself is out of scope for this
// module (see spec.md §1); Bus only needs somewhere to forward the
// eight mirrored register addresses and the destination side of OAM
// DMA. A real PPU implementation satisfies this interface; OpenBusPPU
// below is a harmless stand-in for hosts that haven't wired one up
// yet, and for tests that exercise routing without rendering.
type PPUPort interface {
	ReadRegister(reg uint16) uint8
	WriteRegister(reg uint16, v uint8)
}

// APUPort is the equivalent narrow interface for the audio/IO register
// block at 0x4000-0x4017. Audio synthesis is out of scope; this is
// purely a routing destination.
type APUPort interface {
	ReadRegister(reg uint16) uint8
	WriteRegister(reg uint16, v uint8)
}

// OpenBusPPU is a PPUPort that implements no side effects: reads
// return the last byte written to any of its registers (an
// approximation of real open-bus decay), writes are retained only for
// that purpose. It lets Bus be constructed and driven before a real
// PPU is wired in.
type OpenBusPPU struct{ last uint8 }

func (p *OpenBusPPU) ReadRegister(reg uint16) uint8 { return p.last }
func (p *OpenBusPPU) WriteRegister(reg uint16, v uint8) {
	p.last = v
}

// OpenBusAPU is the APU equivalent of OpenBusPPU.
type OpenBusAPU struct{ last uint8 }

func (a *OpenBusAPU) ReadRegister(reg uint16) uint8 { return a.last }
func (a *OpenBusAPU) WriteRegister(reg uint16, v uint8) {
	a.last = v
}
