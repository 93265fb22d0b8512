package mos6502

import "errors"

// ErrUnimplementedOpcode is wrapped with the offending byte whenever
// decode() is handed a value with no entry in the opcode table: an
// undocumented opcode, which this interpreter intentionally doesn't
// support.
var ErrUnimplementedOpcode = errors.New("mos6502: unimplemented opcode")
