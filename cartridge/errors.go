package cartridge

import "errors"

// Error taxonomy for cartridge construction. ErrIO, ErrHeaderInvalid
// and ErrSizeMismatch are returned only by Load and LoadFromReader;
// ErrUnsupportedMapper is returned (wrapped) by bus.New. Once a
// Cartridge is returned, it is immutable and loading cannot fail again.
var (
	// ErrIO wraps a failure reading the ROM file itself.
	ErrIO = errors.New("rom: io failure")
	// ErrHeaderInvalid reports a magic mismatch. No other header bits
	// are rejected: a NES 2.0 header with reserved bits set in byte 12
	// is decoded as iNES.
	ErrHeaderInvalid = errors.New("rom: invalid header")
	// ErrSizeMismatch means declared PRG/CHR sizes exceed the file's
	// remaining bytes.
	ErrSizeMismatch = errors.New("rom: declared size exceeds file contents")
	// ErrUnsupportedMapper means the header names a mapper id this
	// module doesn't route (anything but 0/NROM).
	ErrUnsupportedMapper = errors.New("rom: unsupported mapper")
)
