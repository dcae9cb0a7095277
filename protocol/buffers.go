package protocol

// Input is a window onto received bytes.
type Input interface {
	Data() []byte
	Pop(n int)
}

// SliceInput is an Input over a plain byte slice.
type SliceInput struct {
	data []byte
}

func NewSliceInput(data []byte) *SliceInput {
	return &SliceInput{data: data}
}

func (s *SliceInput) Data() []byte { return s.data }

func (s *SliceInput) Available() int { return len(s.data) }

func (s *SliceInput) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// Scratch collects outgoing bytes until they are flushed.
type Scratch struct {
	buf [512]byte
	n   int
	// Dropped counts bytes that did not fit.
	Dropped int
}

func NewScratch() *Scratch {
	return &Scratch{}
}

func (s *Scratch) Output(p []byte) {
	n := copy(s.buf[s.n:], p)
	s.n += n
	s.Dropped += len(p) - n
}

// Bytes returns the pending bytes. The slice is valid until Reset.
func (s *Scratch) Bytes() []byte { return s.buf[:s.n] }

func (s *Scratch) Len() int { return s.n }

func (s *Scratch) Reset() { s.n = 0 }

// Ring is a fixed-capacity byte FIFO. One slot is kept free to tell a full
// ring from an empty one.
type Ring struct {
	buf         []byte
	read, write int
}

func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Write stores as much of p as fits and reports how much that was.
func (r *Ring) Write(p []byte) int {
	n := 0
	for _, b := range p {
		next := (r.write + 1) % len(r.buf)
		if next == r.read {
			break
		}
		r.buf[r.write] = b
		r.write = next
		n++
	}
	return n
}

// Output implements Sink. Bytes that do not fit are dropped.
func (r *Ring) Output(p []byte) { r.Write(p) }

// Read moves up to len(p) bytes out of the ring.
func (r *Ring) Read(p []byte) int {
	n := copy(p, r.Data())
	r.Pop(n)
	return n
}

func (r *Ring) Available() int {
	if r.write >= r.read {
		return r.write - r.read
	}
	return len(r.buf) - r.read + r.write
}

func (r *Ring) Free() int {
	return len(r.buf) - r.Available() - 1
}

// Data returns the buffered bytes in order. When the contents wrap around the
// end of the backing array they are copied into a fresh slice.
func (r *Ring) Data() []byte {
	if r.read <= r.write {
		return r.buf[r.read:r.write]
	}
	out := make([]byte, 0, r.Available())
	out = append(out, r.buf[r.read:]...)
	return append(out, r.buf[:r.write]...)
}

func (r *Ring) Pop(n int) {
	if avail := r.Available(); n > avail {
		n = avail
	}
	r.read = (r.read + n) % len(r.buf)
}

func (r *Ring) Reset() {
	r.read, r.write = 0, 0
}
