package protocol

import (
	"bytes"
	"testing"
)

func TestSliceInput(t *testing.T) {
	in := NewSliceInput([]byte{1, 2, 3, 4, 5})
	in.Pop(2)
	if in.Available() != 3 || in.Data()[0] != 3 {
		t.Errorf("after Pop(2): % X", in.Data())
	}
	in.Pop(10)
	if in.Available() != 0 {
		t.Errorf("Pop past the end left %d bytes", in.Available())
	}
}

func TestScratchDropsOverflow(t *testing.T) {
	s := NewScratch()
	s.Output(make([]byte, 500))
	s.Output(make([]byte, 20))
	if s.Len() != 512 || s.Dropped != 8 {
		t.Errorf("len %d dropped %d, want 512 and 8", s.Len(), s.Dropped)
	}
	s.Reset()
	if s.Len() != 0 {
		t.Error("Reset kept data")
	}
}

func TestRingWrapsAround(t *testing.T) {
	r := NewRing(8)
	if n := r.Write([]byte{1, 2, 3, 4, 5, 6}); n != 6 {
		t.Fatalf("wrote %d", n)
	}
	r.Pop(4)
	if n := r.Write([]byte{7, 8, 9, 10, 11}); n != 5 {
		t.Fatalf("wrote %d after pop, want 5", n)
	}
	if r.Free() != 0 {
		t.Errorf("free = %d, want 0", r.Free())
	}
	if n := r.Write([]byte{12}); n != 0 {
		t.Error("write into a full ring succeeded")
	}

	want := []byte{5, 6, 7, 8, 9, 10, 11}
	if got := r.Data(); !bytes.Equal(got, want) {
		t.Errorf("Data() = %v, want %v", got, want)
	}

	buf := make([]byte, 3)
	if n := r.Read(buf); n != 3 || !bytes.Equal(buf, want[:3]) {
		t.Errorf("Read = %d %v", n, buf)
	}
	if r.Available() != 4 {
		t.Errorf("available = %d, want 4", r.Available())
	}

	r.Reset()
	if r.Available() != 0 || len(r.Data()) != 0 {
		t.Error("Reset kept data")
	}
}
