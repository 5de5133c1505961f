package pairio

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// File layout:
//
//	[magic "CPRS"][version u8][compression u8][codec len u8][codec name]
//	[uncompressed size u64][crc32c of uncompressed payload u32][payload]
//
// All integers are little endian.
const (
	magic         = "CPRS"
	formatVersion = 1
	fixedHeader   = len(magic) + 3
	sizeFields    = 8 + 4

	// maxPayload bounds the decoded size accepted from a header.
	maxPayload = 1 << 34
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// FormatError reports a file that is not a valid pair export.
type FormatError struct {
	Name   string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "pairio: invalid file"
	if e.Name != "" {
		msg += " " + e.Name
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Header describes an encoded file.
type Header struct {
	Version     uint8
	Compression Compression
	Codec       string
	Size        uint64
	Checksum    uint32
}

func appendHeader(dst []byte, h Header) []byte {
	dst = append(dst, magic...)
	dst = append(dst, h.Version, byte(h.Compression), byte(len(h.Codec)))
	dst = append(dst, h.Codec...)
	dst = binary.LittleEndian.AppendUint64(dst, h.Size)
	dst = binary.LittleEndian.AppendUint32(dst, h.Checksum)
	return dst
}

// parseHeader returns the header and the remaining payload.
func parseHeader(data []byte) (Header, []byte, error) {
	var h Header
	if len(data) < fixedHeader || string(data[:len(magic)]) != magic {
		return h, nil, &FormatError{Reason: "bad magic"}
	}
	h.Version = data[4]
	h.Compression = Compression(data[5])
	n := int(data[6])
	if h.Version != formatVersion {
		return h, nil, &FormatError{Reason: fmt.Sprintf("unsupported version %d", h.Version)}
	}

	rest := data[fixedHeader:]
	if len(rest) < n+sizeFields {
		return h, nil, &FormatError{Reason: "truncated header"}
	}
	h.Codec = string(rest[:n])
	h.Size = binary.LittleEndian.Uint64(rest[n:])
	h.Checksum = binary.LittleEndian.Uint32(rest[n+8:])
	if h.Size > maxPayload {
		return h, nil, &FormatError{Reason: fmt.Sprintf("payload size %d too large", h.Size)}
	}
	return h, rest[n+sizeFields:], nil
}
