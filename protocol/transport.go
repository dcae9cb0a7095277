package protocol

// Handler runs one received message. It decodes its own arguments from the
// front of *args and leaves the rest for the next message in the frame.
type Handler func(cmdID uint16, args *[]byte) error

// Transport is the device end of the link. It validates incoming frames,
// dispatches their messages in order, acknowledges them, and frames
// outgoing responses.
type Transport struct {
	out     Sink
	handler Handler
	scan    Scanner
	w       FrameWriter
	// next is the sequence byte expected on the next host frame.
	next uint8

	onReset func()
	onFlush func()
	onError func(cmdID uint16, err error)
}

// NewTransport returns a Transport writing frames to out.
func NewTransport(out Sink, handler Handler) *Transport {
	return &Transport{
		out:     out,
		handler: handler,
		scan:    Scanner{RequireDest: true},
		next:    DestBits,
	}
}

// OnReset registers a callback for when the host restarts its sequence.
func (t *Transport) OnReset(fn func()) { t.onReset = fn }

// OnFlush registers a callback run right after each acknowledgement is
// queued, so it can be pushed out before any response.
func (t *Transport) OnFlush(fn func()) { t.onFlush = fn }

// OnError registers a callback for handler failures.
func (t *Transport) OnError(fn func(cmdID uint16, err error)) { t.onError = fn }

// Receive consumes every complete frame in in.
func (t *Transport) Receive(in Input) {
	data := in.Data()
	used := 0
	for {
		f, n, ev := t.scan.Scan(data[used:])
		used += n
		if ev == ScanShort {
			break
		}
		if ev == ScanFrame {
			t.receiveFrame(f)
		}
		t.ack()
	}
	in.Pop(used)
}

func (t *Transport) receiveFrame(f Frame) {
	if f.Seq == DestBits && t.next != DestBits {
		t.next = DestBits
		if t.onReset != nil {
			t.onReset()
		}
	}
	if f.Seq != t.next {
		// Out of order: the ack that follows names the frame we want.
		return
	}
	t.next = NextSeq(f.Seq)
	t.dispatch(f.Payload)
}

func (t *Transport) dispatch(payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			t.scan.lost = true
		}
	}()
	for len(payload) > 0 {
		id, err := DecodeUint(&payload)
		if err != nil {
			t.scan.lost = true
			return
		}
		if t.handler == nil {
			continue
		}
		if err := t.handler(uint16(id), &payload); err != nil {
			if t.onError != nil {
				t.onError(uint16(id), err)
			}
			return
		}
	}
}

func (t *Transport) ack() {
	var b [MinFrame]byte
	t.out.Output(AppendAck(b[:0], t.next))
	if t.onFlush != nil {
		t.onFlush()
	}
}

// Send frames a single message. Responses reuse the current sequence byte.
func (t *Transport) Send(cmdID uint16, args func(Sink)) error {
	t.w.Begin(t.next)
	EncodeUint(&t.w, uint32(cmdID))
	if args != nil {
		args(&t.w)
	}
	frame, err := t.w.Finish()
	if err != nil {
		return err
	}
	t.out.Output(frame)
	return nil
}

// Reset forgets the host's sequence, as after a reconnect.
func (t *Transport) Reset() {
	t.scan.Reset()
	t.next = DestBits
	if t.onReset != nil {
		t.onReset()
	}
}

// Expected returns the sequence byte of the next frame the device will accept.
func (t *Transport) Expected() uint8 { return t.next }
