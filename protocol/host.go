package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// DefaultTimeout bounds how long the host waits for an acknowledgement or
// a response.
const DefaultTimeout = 2 * time.Second

const sendAttempts = 3

var ErrClosed = errors.New("protocol: transport closed")

// Message is a decoded device message.
type Message struct {
	Seq  uint8
	ID   uint16
	Args []byte
}

// HostTransport is the host end of the link. Send blocks until the device
// acknowledges the frame. Responses are delivered on an internal queue read
// with Receive and Await, and to an optional callback.
type HostTransport struct {
	port io.ReadWriteCloser

	sendMu sync.Mutex
	seq    uint8
	w      FrameWriter

	acks      chan uint8
	responses chan Message
	onMessage func(Message)

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	Timeout time.Duration
}

// NewHostTransport starts reading from port.
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:      port,
		seq:       DestBits,
		acks:      make(chan uint8, 4),
		responses: make(chan Message, 32),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
		Timeout:   DefaultTimeout,
	}
	go t.readLoop()
	return t
}

// OnMessage registers a callback run on the reader goroutine for every
// device message. Set it before sending anything.
func (t *HostTransport) OnMessage(fn func(Message)) { t.onMessage = fn }

// Send frames one message and waits for it to be acknowledged. A
// negative acknowledgement makes the host adopt the device's sequence and
// send again.
func (t *HostTransport) Send(cmdID uint16, args func(Sink)) error {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	for attempt := 0; attempt < sendAttempts; attempt++ {
		t.w.Begin(t.seq)
		EncodeUint(&t.w, uint32(cmdID))
		if args != nil {
			args(&t.w)
		}
		frame, err := t.w.Finish()
		if err != nil {
			return fmt.Errorf("command %d: %w", cmdID, err)
		}

		t.drainAcks()
		if _, err := t.port.Write(frame); err != nil {
			return fmt.Errorf("write command %d: %w", cmdID, err)
		}

		got, err := t.waitAck()
		if err != nil {
			return fmt.Errorf("command %d: %w", cmdID, err)
		}
		if got == NextSeq(t.seq) {
			t.seq = got
			return nil
		}
		t.seq = got&SeqMask | DestBits
	}
	return fmt.Errorf("command %d: not acknowledged after %d attempts", cmdID, sendAttempts)
}

func (t *HostTransport) drainAcks() {
	for {
		select {
		case <-t.acks:
		default:
			return
		}
	}
}

func (t *HostTransport) waitAck() (uint8, error) {
	timer := time.NewTimer(t.Timeout)
	defer timer.Stop()
	select {
	case seq := <-t.acks:
		return seq, nil
	case <-timer.C:
		return 0, fmt.Errorf("no ack after %v", t.Timeout)
	case <-t.stop:
		return 0, ErrClosed
	}
}

// Receive returns the next device message.
func (t *HostTransport) Receive(timeout time.Duration) (Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case m := <-t.responses:
		return m, nil
	case <-timer.C:
		return Message{}, fmt.Errorf("no response after %v", timeout)
	case <-t.stop:
		return Message{}, ErrClosed
	}
}

// Await discards messages until one with the given ID arrives.
func (t *HostTransport) Await(id uint16, timeout time.Duration) (Message, error) {
	deadline := time.Now().Add(timeout)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			return Message{}, fmt.Errorf("no message %d after %v", id, timeout)
		}
		m, err := t.Receive(left)
		if err != nil {
			return Message{}, err
		}
		if m.ID == id {
			return m, nil
		}
	}
}

func (t *HostTransport) readLoop() {
	defer close(t.done)

	scan := Scanner{}
	var pending []byte
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			used := 0
			for {
				f, k, ev := scan.Scan(pending[used:])
				used += k
				if ev == ScanShort {
					break
				}
				if ev == ScanFrame {
					t.deliver(f)
				}
			}
			pending = append(pending[:0], pending[used:]...)
		}
		if err != nil {
			select {
			case <-t.stop:
				return
			default:
			}
			if errors.Is(err, io.EOF) {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (t *HostTransport) deliver(f Frame) {
	if f.IsAck() {
		select {
		case t.acks <- f.Seq:
		default:
		}
		return
	}

	payload := append([]byte(nil), f.Payload...)
	id, err := DecodeUint(&payload)
	if err != nil {
		return
	}
	// Without the dictionary the argument boundaries are unknown, so the
	// rest of the frame travels with its first message.
	m := Message{Seq: f.Seq, ID: uint16(id), Args: payload}
	if t.onMessage != nil {
		t.onMessage(m)
	}
	t.queue(m)
}

func (t *HostTransport) queue(m Message) {
	for {
		select {
		case t.responses <- m:
			return
		default:
		}
		select {
		case <-t.responses:
		default:
		}
	}
}

// Close stops the reader and closes the port.
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		err = t.port.Close()
		<-t.done
	})
	return err
}

// Sequence returns the sequence byte the next command will carry.
func (t *HostTransport) Sequence() uint8 {
	t.sendMu.Lock()
	defer t.sendMu.Unlock()
	return t.seq
}
