package protocol

import (
	"bytes"
	"errors"
	"testing"
)

type call struct {
	id  uint16
	arg int32
}

// recorder decodes one signed argument per message.
type recorder struct {
	calls []call
	fail  uint16
}

func (r *recorder) handle(id uint16, args *[]byte) error {
	v, err := DecodeInt(args)
	if err != nil {
		return err
	}
	r.calls = append(r.calls, call{id, v})
	if id == r.fail && r.fail != 0 {
		return errors.New("refused")
	}
	return nil
}

func newDevice() (*Transport, *Scratch, *recorder) {
	out := NewScratch()
	rec := &recorder{}
	return NewTransport(out, rec.handle), out, rec
}

func TestTransportDispatchesInOrderAndAcks(t *testing.T) {
	dev, out, rec := newDevice()

	in := NewSliceInput(buildFrame(t, 0x10, msg(3, 10), msg(4, -5)))
	dev.Receive(in)

	if len(rec.calls) != 2 || rec.calls[0] != (call{3, 10}) || rec.calls[1] != (call{4, -5}) {
		t.Errorf("calls = %v", rec.calls)
	}
	if in.Available() != 0 {
		t.Errorf("%d bytes left unconsumed", in.Available())
	}
	if want := AppendAck(nil, 0x11); !bytes.Equal(out.Bytes(), want) {
		t.Errorf("ack = % X, want % X", out.Bytes(), want)
	}
}

func TestTransportIgnoresOutOfOrderFrame(t *testing.T) {
	dev, out, rec := newDevice()

	dev.Receive(NewSliceInput(buildFrame(t, 0x12, msg(3, 1))))
	if len(rec.calls) != 0 {
		t.Error("out-of-order frame dispatched")
	}
	if want := AppendAck(nil, 0x10); !bytes.Equal(out.Bytes(), want) {
		t.Errorf("nak = % X, want % X", out.Bytes(), want)
	}
}

func TestTransportDetectsHostRestart(t *testing.T) {
	dev, _, rec := newDevice()
	resets := 0
	dev.OnReset(func() { resets++ })

	dev.Receive(NewSliceInput(buildFrame(t, 0x10, msg(1, 1))))
	dev.Receive(NewSliceInput(buildFrame(t, 0x11, msg(1, 2))))
	dev.Receive(NewSliceInput(buildFrame(t, 0x10, msg(1, 3))))

	if resets != 1 {
		t.Errorf("resets = %d, want 1", resets)
	}
	if len(rec.calls) != 3 || dev.Expected() != 0x11 {
		t.Errorf("calls %v, expecting %X", rec.calls, dev.Expected())
	}
}

func TestTransportKeepsPartialFrame(t *testing.T) {
	dev, _, rec := newDevice()
	f := buildFrame(t, 0x10, msg(9, 1234))

	in := NewSliceInput(f[:4])
	dev.Receive(in)
	if in.Available() != 4 || len(rec.calls) != 0 {
		t.Fatal("partial frame consumed")
	}

	dev.Receive(NewSliceInput(f))
	if len(rec.calls) != 1 || rec.calls[0].arg != 1234 {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestTransportResyncAcks(t *testing.T) {
	dev, out, rec := newDevice()

	bad := buildFrame(t, 0x10, msg(1, 1))
	bad[len(bad)-2] ^= 0x01
	stream := append(bad, buildFrame(t, 0x10, msg(1, 2))...)
	dev.Receive(NewSliceInput(stream))

	want := AppendAck(AppendAck(nil, 0x10), 0x11)
	if !bytes.Equal(out.Bytes(), want) {
		t.Errorf("output = % X, want % X", out.Bytes(), want)
	}
	if len(rec.calls) != 1 || rec.calls[0].arg != 2 {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestTransportHandlerErrorStopsFrame(t *testing.T) {
	dev, _, rec := newDevice()
	rec.fail = 4
	var failed uint16
	dev.OnError(func(id uint16, err error) { failed = id })

	dev.Receive(NewSliceInput(buildFrame(t, 0x10, msg(4, 1), msg(5, 2))))
	if failed != 4 || len(rec.calls) != 1 {
		t.Errorf("failed=%d calls=%v", failed, rec.calls)
	}
	if dev.Expected() != 0x11 {
		t.Error("failed frame was not acknowledged")
	}
}

func TestTransportSendFramesResponse(t *testing.T) {
	dev, out, _ := newDevice()
	dev.Receive(NewSliceInput(buildFrame(t, 0x10, msg(1, 0))))
	out.Reset()

	if err := dev.Send(7, func(o Sink) { EncodeUint(o, 99) }); err != nil {
		t.Fatal(err)
	}
	var s Scanner
	f, _, ev := s.Scan(out.Bytes())
	if ev != ScanFrame || f.Seq != 0x11 {
		t.Fatalf("response: ev=%d seq=%X", ev, f.Seq)
	}
	p := f.Payload
	id, _ := DecodeUint(&p)
	v, _ := DecodeUint(&p)
	if id != 7 || v != 99 {
		t.Errorf("response id=%d value=%d", id, v)
	}
}
