// Package mcu talks to tone firmware over the framed serial protocol.
package mcu

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"pwmtone/host/serial"
	"pwmtone/protocol"
)

// IDs fixed by the firmware so the dictionary can be fetched before it is
// known.
const (
	identifyResponseID = 0
	identifyID         = 1
	identifyChunk      = 40
)

var (
	ErrNotConnected   = errors.New("mcu: not connected")
	ErrNoDictionary   = errors.New("mcu: dictionary not loaded")
	ErrUnknownMessage = errors.New("mcu: unknown message")
)

// Dictionary is the parsed identify data.
type Dictionary struct {
	Version       string                    `json:"version"`
	BuildVersions string                    `json:"build_versions"`
	Config        map[string]any            `json:"config"`
	Commands      map[string]int            `json:"commands"`
	Responses     map[string]int            `json:"responses"`
	Enumerations  map[string]map[string]int `json:"enumerations,omitempty"`
}

// ConfigInt returns a numeric constant.
func (d *Dictionary) ConfigInt(name string) (int, bool) {
	v, ok := d.Config[name].(float64)
	return int(v), ok
}

// message is one dictionary entry keyed by name.
type message struct {
	id     uint16
	format protocol.MessageFormat
}

// MCU is a connection to one board.
type MCU struct {
	transport *protocol.HostTransport
	log       *slog.Logger

	dictionary     *Dictionary
	dictionaryData []byte

	mu        sync.RWMutex
	commands  map[string]message
	responses map[uint16]message
}

// NewMCU returns an unconnected MCU logging to logger, or slog.Default when
// logger is nil.
func NewMCU(logger *slog.Logger) *MCU {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCU{log: logger}
}

// Connect opens device with the default serial settings.
func (m *MCU) Connect(device string) error {
	return m.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens the port described by cfg.
func (m *MCU) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	m.log.Debug("serial open", "device", cfg.Device, "baud", cfg.Baud)
	m.Attach(port)
	return nil
}

// Attach uses an already open link.
func (m *MCU) Attach(port io.ReadWriteCloser) {
	m.transport = protocol.NewHostTransport(port)
	m.transport.OnMessage(m.logMessage)
}

// Close closes the link.
func (m *MCU) Close() error {
	if m.transport == nil {
		return nil
	}
	err := m.transport.Close()
	m.transport = nil
	return err
}

func (m *MCU) IsConnected() bool {
	return m.transport != nil
}

// logMessage runs on the reader goroutine.
func (m *MCU) logMessage(msg protocol.Message) {
	m.mu.RLock()
	r, ok := m.responses[msg.ID]
	m.mu.RUnlock()
	if !ok {
		m.log.Debug("device message", "id", msg.ID, "len", len(msg.Args))
		return
	}
	if r.format.Name == "shutdown" {
		m.log.Warn("device shut down")
		return
	}
	m.log.Debug("device message", "name", r.format.Name)
}

// RetrieveDictionary downloads and parses the firmware dictionary.
func (m *MCU) RetrieveDictionary() error {
	if m.transport == nil {
		return ErrNotConnected
	}

	var buf bytes.Buffer
	for {
		chunk, err := m.identify(uint32(buf.Len()))
		if err != nil {
			return fmt.Errorf("dictionary at offset %d: %w", buf.Len(), err)
		}
		buf.Write(chunk)
		if len(chunk) < identifyChunk {
			break
		}
	}
	m.log.Debug("dictionary retrieved", "bytes", buf.Len())

	return m.LoadDictionary(buf.Bytes())
}

func (m *MCU) identify(offset uint32) ([]byte, error) {
	err := m.transport.Send(identifyID, func(out protocol.Sink) {
		protocol.EncodeUint(out, offset)
		protocol.EncodeUint(out, identifyChunk)
	})
	if err != nil {
		return nil, err
	}
	resp, err := m.transport.Await(identifyResponseID, m.transport.Timeout)
	if err != nil {
		return nil, err
	}
	args := resp.Args
	got, err := protocol.DecodeUint(&args)
	if err != nil {
		return nil, err
	}
	if got != offset {
		return nil, fmt.Errorf("response for offset %d", got)
	}
	return protocol.DecodeBytes(&args)
}

// LoadDictionary parses raw identify data and indexes its messages by name.
func (m *MCU) LoadDictionary(data []byte) error {
	dict := &Dictionary{}
	if err := json.Unmarshal(data, dict); err != nil {
		return fmt.Errorf("parse dictionary: %w", err)
	}

	commands := make(map[string]message, len(dict.Commands))
	for key, id := range dict.Commands {
		mf, err := protocol.ParseFormat(key)
		if err != nil {
			return fmt.Errorf("command %q: %w", key, err)
		}
		commands[mf.Name] = message{uint16(id), mf}
	}
	responses := make(map[uint16]message, len(dict.Responses))
	for key, id := range dict.Responses {
		mf, err := protocol.ParseFormat(key)
		if err != nil {
			return fmt.Errorf("response %q: %w", key, err)
		}
		responses[uint16(id)] = message{uint16(id), mf}
	}

	m.mu.Lock()
	m.dictionary = dict
	m.dictionaryData = append([]byte(nil), data...)
	m.commands = commands
	m.responses = responses
	m.mu.Unlock()
	return nil
}

func (m *MCU) Dictionary() *Dictionary {
	return m.dictionary
}

func (m *MCU) DictionaryRaw() []byte {
	return m.dictionaryData
}

// CommandNames returns the names of every command, sorted.
func (m *MCU) CommandNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.commands))
	for name := range m.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MCU) command(name string) (message, error) {
	if m.transport == nil {
		return message{}, ErrNotConnected
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.commands == nil {
		return message{}, ErrNoDictionary
	}
	c, ok := m.commands[name]
	if !ok {
		return message{}, fmt.Errorf("%w: %s", ErrUnknownMessage, name)
	}
	return c, nil
}

func (m *MCU) responseID(name string) (message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.responses {
		if r.format.Name == name {
			return r, nil
		}
	}
	return message{}, fmt.Errorf("%w: %s", ErrUnknownMessage, name)
}

// Send encodes args in the order of the command's format and waits for the
// acknowledgement.
func (m *MCU) Send(name string, args ...int32) error {
	c, err := m.command(name)
	if err != nil {
		return err
	}
	if len(args) != len(c.format.Params) {
		return fmt.Errorf("%s: want %d arguments, got %d", name, len(c.format.Params), len(args))
	}
	var encErr error
	err = m.transport.Send(c.id, func(out protocol.Sink) {
		encErr = c.format.Encode(out, args...)
	})
	if encErr != nil {
		return fmt.Errorf("%s: %w", name, encErr)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Query sends a command and returns the arguments of the named response.
func (m *MCU) Query(name, response string, args ...int32) (protocol.Values, error) {
	r, err := m.responseID(response)
	if err != nil {
		return nil, err
	}
	if err := m.Send(name, args...); err != nil {
		return nil, err
	}
	msg, err := m.transport.Await(r.id, m.timeout())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	data := msg.Args
	return r.format.Decode(&data)
}

func (m *MCU) timeout() time.Duration {
	if m.transport == nil || m.transport.Timeout == 0 {
		return protocol.DefaultTimeout
	}
	return m.transport.Timeout
}
