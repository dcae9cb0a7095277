package core

import (
	"errors"
	"testing"
)

func TestCommandRegistry(t *testing.T) {
	r := NewCommandRegistry()

	called := false
	id := r.Register("config_tone", "oid=%c pin=%u", func(*[]byte) error {
		called = true
		return nil
	})
	resp := r.Register("tone_status", "oid=%c playing=%c state=%c", nil)

	if id != 0 || resp != 1 {
		t.Fatalf("ids = %d, %d, want 0, 1", id, resp)
	}
	if again := r.Register("config_tone", "ignored", nil); again != id {
		t.Errorf("re-registering returned %d", again)
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d", r.Count())
	}

	c, ok := r.LookupName("config_tone")
	if !ok || c.Key() != "config_tone oid=%c pin=%u" || c.IsResponse() {
		t.Errorf("LookupName = %+v, %v", c, ok)
	}

	var data []byte
	if err := r.Dispatch(id, &data); err != nil || !called {
		t.Errorf("Dispatch = %v, called = %v", err, called)
	}
	if err := r.Dispatch(resp, &data); !errors.Is(err, ErrNotACommand) {
		t.Errorf("dispatching a response = %v", err)
	}
	if err := r.Dispatch(99, &data); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("dispatching unknown id = %v", err)
	}
}

func TestCommandKeyWithoutFormat(t *testing.T) {
	c := Command{Name: "get_clock"}
	if c.Key() != "get_clock" {
		t.Errorf("Key() = %q", c.Key())
	}
}
