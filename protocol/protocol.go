// Package protocol implements the framed serial protocol spoken between the
// tone firmware and its host tools.
//
// Every frame on the wire is
//
//	len seq payload... crc_hi crc_lo 0x7E
//
// len counts the whole frame, including itself and the trailer. seq carries
// 0x10 in its high nibble and a rolling sequence number in its low nibble.
// The payload is a run of messages, each a VLQ command ID followed by VLQ
// encoded arguments. A frame with an empty payload acknowledges every frame
// before seq.
package protocol

import "errors"

// Frame layout.
const (
	HeaderSize  = 2
	TrailerSize = 3
	MinFrame    = HeaderSize + TrailerSize
	MaxFrame    = 64
	MaxPayload  = MaxFrame - MinFrame

	posLen = 0
	posSeq = 1

	SyncByte = 0x7E
	DestBits = 0x10
	SeqMask  = 0x0F
)

var (
	ErrBadVLQ       = errors.New("protocol: truncated VLQ")
	ErrFrameTooLong = errors.New("protocol: frame exceeds 64 bytes")
)

// NextSeq returns the sequence byte that follows seq.
func NextSeq(seq uint8) uint8 {
	return (seq+1)&SeqMask | DestBits
}

// Sink receives encoded bytes.
type Sink interface {
	Output(p []byte)
}
