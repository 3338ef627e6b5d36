// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/pkg/errors"
)

// These constants are the values of the Kaspa script opcodes this package
// builds or recognizes.
const (
	Op0                   = 0x00 // 0
	OpFalse               = 0x00 // 0 - AKA Op0
	OpData1               = 0x01 // 1
	OpData20              = 0x14 // 20
	OpData32              = 0x20 // 32
	OpData33              = 0x21 // 33
	OpData65              = 0x41 // 65
	OpData75              = 0x4b // 75
	OpPushData1           = 0x4c // 76
	OpPushData2           = 0x4d // 77
	OpPushData4           = 0x4e // 78
	Op1Negate             = 0x4f // 79
	OpReserved            = 0x50 // 80
	Op1                   = 0x51 // 81 - AKA OpTrue
	OpTrue                = 0x51 // 81
	Op2                   = 0x52 // 82
	Op3                   = 0x53 // 83
	Op16                  = 0x60 // 96
	OpNop                 = 0x61 // 97
	OpIf                  = 0x63 // 99
	OpNotIf               = 0x64 // 100
	OpElse                = 0x67 // 103
	OpEndIf               = 0x68 // 104
	OpVerify              = 0x69 // 105
	OpReturn              = 0x6a // 106
	OpDrop                = 0x75 // 117
	OpDup                 = 0x76 // 118
	OpSwap                = 0x7c // 124
	OpSize                = 0x82 // 130
	OpEqual               = 0x87 // 135
	OpEqualVerify         = 0x88 // 136
	OpAdd                 = 0x93 // 147
	OpSHA256              = 0xa8 // 168
	OpCheckMultiSigECDSA  = 0xa9 // 169
	OpBlake2b             = 0xaa // 170
	OpCheckSigECDSA       = 0xab // 171
	OpCheckSig            = 0xac // 172
	OpCheckSigVerify      = 0xad // 173
	OpCheckMultiSig       = 0xae // 174
	OpCheckMultiSigVerify = 0xaf // 175
	OpCheckLockTimeVerify = 0xb0 // 176
	OpCheckSequenceVerify = 0xb1 // 177
)

// opcode describes how a single opcode is laid out in a script. length is
// the total encoded length for fixed size opcodes and the negated width of
// the length prefix for the OpPushData opcodes.
type opcode struct {
	value  byte
	name   string
	length int
}

// opcodeArray holds details about all possible opcodes. Opcodes without a
// name here are rendered as OP_UNKNOWN<value>; they still parse as single
// byte opcodes.
var opcodeArray [256]opcode

// OpcodeByName is a map that can be used to lookup an opcode by its
// human-readable name (OP_CHECKSIG, OP_FALSE, ...).
var OpcodeByName = make(map[string]byte)

func init() {
	namedOpcodes := map[byte]string{
		Op0:                   "OP_0",
		OpPushData1:           "OP_PUSHDATA1",
		OpPushData2:           "OP_PUSHDATA2",
		OpPushData4:           "OP_PUSHDATA4",
		Op1Negate:             "OP_1NEGATE",
		OpReserved:            "OP_RESERVED",
		OpNop:                 "OP_NOP",
		OpIf:                  "OP_IF",
		OpNotIf:               "OP_NOTIF",
		OpElse:                "OP_ELSE",
		OpEndIf:               "OP_ENDIF",
		OpVerify:              "OP_VERIFY",
		OpReturn:              "OP_RETURN",
		OpDrop:                "OP_DROP",
		OpDup:                 "OP_DUP",
		OpSwap:                "OP_SWAP",
		OpSize:                "OP_SIZE",
		OpEqual:               "OP_EQUAL",
		OpEqualVerify:         "OP_EQUALVERIFY",
		OpAdd:                 "OP_ADD",
		OpSHA256:              "OP_SHA256",
		OpCheckMultiSigECDSA:  "OP_CHECKMULTISIGECDSA",
		OpBlake2b:             "OP_BLAKE2B",
		OpCheckSigECDSA:       "OP_CHECKSIGECDSA",
		OpCheckSig:            "OP_CHECKSIG",
		OpCheckSigVerify:      "OP_CHECKSIGVERIFY",
		OpCheckMultiSig:       "OP_CHECKMULTISIG",
		OpCheckMultiSigVerify: "OP_CHECKMULTISIGVERIFY",
		OpCheckLockTimeVerify: "OP_CHECKLOCKTIMEVERIFY",
		OpCheckSequenceVerify: "OP_CHECKSEQUENCEVERIFY",
	}

	for i := 0; i < len(opcodeArray); i++ {
		value := byte(i)
		op := opcode{value: value, length: 1}
		switch {
		case value >= OpData1 && value <= OpData75:
			op.name = fmt.Sprintf("OP_DATA_%d", value)
			op.length = int(value) + 1
		case value == OpPushData1:
			op.length = -1
		case value == OpPushData2:
			op.length = -2
		case value == OpPushData4:
			op.length = -4
		case value >= Op1 && value <= Op16:
			op.name = fmt.Sprintf("OP_%d", value-(Op1-1))
		}
		if name, ok := namedOpcodes[value]; ok {
			op.name = name
		}
		if op.name == "" {
			op.name = fmt.Sprintf("OP_UNKNOWN%d", value)
		}
		opcodeArray[i] = op
		OpcodeByName[op.name] = value
	}
	OpcodeByName["OP_FALSE"] = OpFalse
	OpcodeByName["OP_TRUE"] = OpTrue
}

// parsedOpcode represents an opcode that has been parsed and includes any
// potential data associated with it.
type parsedOpcode struct {
	opcode *opcode
	data   []byte
}

// parseScript preparses the script in bytes into a list of parsedOpcodes
// while applying a number of sanity checks.
func parseScript(script []byte) ([]parsedOpcode, error) {
	retScript := make([]parsedOpcode, 0, len(script))
	for i := 0; i < len(script); {
		instr := script[i]
		op := &opcodeArray[instr]
		pop := parsedOpcode{opcode: op}

		switch {
		// No additional data. Note that some of the opcodes, notably
		// OpReserved and the unknown ones, are invalid to execute, but
		// still parse.
		case op.length == 1:
			i++

		// Data pushes of specific lengths -- OpData[1-75].
		case op.length > 1:
			if len(script[i:]) < op.length {
				return retScript, errors.Wrapf(ErrMalformedScript,
					"opcode %s requires %d bytes, but script only has %d remaining",
					op.name, op.length, len(script[i:]))
			}

			// Slice out the data.
			pop.data = script[i+1 : i+op.length]
			i += op.length

		// Data pushes with parsed lengths -- OpPushData[1,2,4].
		case op.length < 0:
			var dataLength int
			off := i + 1

			if len(script[off:]) < -op.length {
				return retScript, errors.Wrapf(ErrMalformedScript,
					"opcode %s requires %d bytes, but script only has %d remaining",
					op.name, -op.length, len(script[off:]))
			}

			// Next -length bytes are little endian length of data.
			switch op.length {
			case -1:
				dataLength = int(script[off])
			case -2:
				dataLength = (int(script[off+1]) << 8) |
					int(script[off])
			case -4:
				dataLength = (int(script[off+3]) << 24) |
					(int(script[off+2]) << 16) |
					(int(script[off+1]) << 8) |
					int(script[off])
			}

			// Move offset to beginning of the data.
			off += -op.length

			// Disallow entries that do not fit script or were
			// sign extended.
			if dataLength > len(script[off:]) || dataLength < 0 {
				return retScript, errors.Wrapf(ErrMalformedScript,
					"opcode %s pushes %d bytes, but script only has %d remaining",
					op.name, dataLength, len(script[off:]))
			}

			pop.data = script[off : off+dataLength]
			i += 1 - op.length + dataLength
		}

		retScript = append(retScript, pop)
	}

	return retScript, nil
}

// DisasmString formats a disassembled script for one line printing. When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string
// '[error]' appended.
func DisasmString(script []byte) string {
	pops, err := parseScript(script)
	var disasm string
	for i, pop := range pops {
		if i > 0 {
			disasm += " "
		}
		if pop.data != nil || pop.opcode.length != 1 {
			disasm += fmt.Sprintf("%x", pop.data)
			continue
		}
		disasm += pop.opcode.name
	}
	if err != nil {
		if disasm != "" {
			disasm += " "
		}
		disasm += "[error]"
	}
	return disasm
}
