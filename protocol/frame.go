package protocol

import "bytes"

// Frame is one validated frame taken off the wire.
type Frame struct {
	Seq     uint8
	Payload []byte
}

// IsAck reports whether the frame carries no messages.
func (f Frame) IsAck() bool { return len(f.Payload) == 0 }

// ScanEvent says what Scanner.Scan found.
type ScanEvent uint8

const (
	// ScanShort means no complete frame is buffered yet.
	ScanShort ScanEvent = iota
	// ScanFrame means a valid frame was returned.
	ScanFrame
	// ScanResync means the stream was corrupt and the scanner skipped to the
	// next sync byte.
	ScanResync
)

// Scanner cuts a byte stream into frames. After a bad length, sequence,
// trailer or checksum it drops bytes up to the next sync byte.
type Scanner struct {
	lost bool
	// RequireDest rejects frames whose sequence byte lacks DestBits. The
	// firmware sets it; frames it sends the other way carry the bit too.
	RequireDest bool
}

// Scan examines data and returns what it found together with the number of
// leading bytes the caller may discard.
func (s *Scanner) Scan(data []byte) (Frame, int, ScanEvent) {
	n := 0
	for {
		if s.lost {
			i := bytes.IndexByte(data[n:], SyncByte)
			if i < 0 {
				return Frame{}, len(data), ScanShort
			}
			s.lost = false
			return Frame{}, n + i + 1, ScanResync
		}
		if n < len(data) && data[n] == SyncByte {
			n++
			continue
		}
		rest := data[n:]
		if len(rest) < MinFrame {
			return Frame{}, n, ScanShort
		}
		size := int(rest[posLen])
		if size < MinFrame || size > MaxFrame {
			s.lost = true
			continue
		}
		if s.RequireDest && rest[posSeq]&^SeqMask != DestBits {
			s.lost = true
			continue
		}
		if len(rest) < size {
			return Frame{}, n, ScanShort
		}
		body := size - TrailerSize
		sum := uint16(rest[body])<<8 | uint16(rest[body+1])
		if rest[size-1] != SyncByte || sum != CRC16(rest[:body]) {
			s.lost = true
			continue
		}
		return Frame{Seq: rest[posSeq], Payload: rest[HeaderSize:body]}, n + size, ScanFrame
	}
}

// Synced reports whether the scanner is in step with the stream.
func (s *Scanner) Synced() bool { return !s.lost }

// Reset puts the scanner back in step.
func (s *Scanner) Reset() { s.lost = false }

// FrameWriter assembles a single frame in place.
type FrameWriter struct {
	buf  [MaxFrame]byte
	n    int
	over bool
}

// Begin starts a new frame with the given sequence byte.
func (w *FrameWriter) Begin(seq uint8) {
	w.buf[posSeq] = seq
	w.n = HeaderSize
	w.over = false
}

// Output appends payload bytes.
func (w *FrameWriter) Output(p []byte) {
	if w.over || w.n+len(p) > MaxFrame-TrailerSize {
		w.over = true
		return
	}
	w.n += copy(w.buf[w.n:], p)
}

// PayloadLen is the number of payload bytes written since Begin.
func (w *FrameWriter) PayloadLen() int { return w.n - HeaderSize }

// Finish seals the frame and returns it. The slice is reused by the next
// Begin.
func (w *FrameWriter) Finish() ([]byte, error) {
	if w.over {
		return nil, ErrFrameTooLong
	}
	w.buf[posLen] = byte(w.n + TrailerSize)
	sum := CRC16(w.buf[:w.n])
	w.buf[w.n] = byte(sum >> 8)
	w.buf[w.n+1] = byte(sum)
	w.buf[w.n+2] = SyncByte
	w.n += TrailerSize
	return w.buf[:w.n], nil
}

// AppendAck appends an empty frame acknowledging up to seq.
func AppendAck(dst []byte, seq uint8) []byte {
	sum := CRC16([]byte{MinFrame, seq})
	return append(dst, MinFrame, seq, byte(sum>>8), byte(sum), SyncByte)
}
