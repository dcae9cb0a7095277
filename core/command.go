package core

import (
	"errors"
	"sync"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotACommand    = errors.New("message is a response")
)

// CommandHandler decodes its arguments from the front of *data.
type CommandHandler func(data *[]byte) error

// Command is one dictionary entry. Entries without a handler are responses
// the device sends to the host.
type Command struct {
	ID      uint16
	Name    string
	Format  string // e.g. "oid=%c pin=%u"
	Handler CommandHandler
}

// Key is the dictionary key, the name followed by the format.
func (c *Command) Key() string {
	if c.Format == "" {
		return c.Name
	}
	return c.Name + " " + c.Format
}

// IsResponse reports whether the entry flows from device to host.
func (c *Command) IsResponse() bool {
	return c.Handler == nil
}

// CommandRegistry assigns IDs in registration order.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands []*Command
	byName   map[string]*Command
}

var globalRegistry = NewCommandRegistry()

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{byName: make(map[string]*Command)}
}

// Register adds a message and returns its ID. Registering a name twice
// returns the first ID.
func (r *CommandRegistry) Register(name, format string, handler CommandHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.byName[name]; ok {
		return c.ID
	}
	c := &Command{
		ID:      uint16(len(r.commands)),
		Name:    name,
		Format:  format,
		Handler: handler,
	}
	r.commands = append(r.commands, c)
	r.byName[name] = c
	return c.ID
}

func (r *CommandRegistry) Lookup(id uint16) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.commands) {
		return nil, false
	}
	return r.commands[id], true
}

func (r *CommandRegistry) LookupName(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[name]
	return c, ok
}

func (r *CommandRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Commands returns every entry in ID order.
func (r *CommandRegistry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Command(nil), r.commands...)
}

// Dispatch runs the handler registered under id.
func (r *CommandRegistry) Dispatch(id uint16, data *[]byte) error {
	c, ok := r.Lookup(id)
	if !ok {
		return ErrUnknownCommand
	}
	if c.Handler == nil {
		return ErrNotACommand
	}
	return c.Handler(data)
}

// RegisterCommand adds a host to device command to the global registry.
func RegisterCommand(name, format string, handler CommandHandler) uint16 {
	return globalRegistry.Register(name, format, handler)
}

// RegisterResponse adds a device to host message to the global registry.
func RegisterResponse(name, format string) uint16 {
	return globalRegistry.Register(name, format, nil)
}

// DispatchCommand runs a command from the global registry. Its signature
// matches protocol.Handler.
func DispatchCommand(id uint16, data *[]byte) error {
	return globalRegistry.Dispatch(id, data)
}

func GetGlobalRegistry() *CommandRegistry {
	return globalRegistry
}
