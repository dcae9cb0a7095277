package core

import (
	"sort"
	"strconv"
	"sync"
)

// Dictionary describes the firmware to the host: its version, constants,
// enumerations and every registered message with its ID. It is served as
// JSON in chunks by the identify command.
//
// The JSON is assembled by hand; encoding/json pulls reflection into the
// firmware image.
type Dictionary struct {
	mu            sync.RWMutex
	constants     map[string]string // value already rendered as JSON
	enumerations  map[string][]string
	registry      *CommandRegistry
	version       string
	buildVersions string
	cached        []byte
}

var globalDictionary = NewDictionary(globalRegistry)

func NewDictionary(reg *CommandRegistry) *Dictionary {
	return &Dictionary{
		constants:     make(map[string]string),
		enumerations:  make(map[string][]string),
		registry:      reg,
		version:       "pwmtone-0.1.0",
		buildVersions: "go-tinygo",
	}
}

// RegisterConstant adds a constant to the global dictionary.
func RegisterConstant(name string, value any) {
	globalDictionary.AddConstant(name, value)
}

// RegisterEnumeration adds an enumeration to the global dictionary. Empty
// names are left out of the output but keep their index.
func RegisterEnumeration(name string, values []string) {
	globalDictionary.AddEnumeration(name, values)
}

func GetGlobalDictionary() *Dictionary {
	return globalDictionary
}

// AddConstant records name. Integers are emitted as JSON numbers, anything
// else as a string.
func (d *Dictionary) AddConstant(name string, value any) {
	var v string
	switch x := value.(type) {
	case int:
		v = strconv.Itoa(x)
	case int32:
		v = strconv.FormatInt(int64(x), 10)
	case uint16:
		v = strconv.FormatUint(uint64(x), 10)
	case uint32:
		v = strconv.FormatUint(uint64(x), 10)
	case string:
		v = string(appendJSONString(nil, x))
	default:
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.constants[name] = v
	d.cached = nil
}

func (d *Dictionary) AddEnumeration(name string, values []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enumerations[name] = append([]string(nil), values...)
	d.cached = nil
}

func (d *Dictionary) SetVersion(version, buildVersions string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = version
	d.buildVersions = buildVersions
	d.cached = nil
}

// BuildDictionary renders and caches the JSON. Call it once every command
// is registered.
func (d *Dictionary) BuildDictionary() {
	cmds := d.registry.Commands()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = d.render(cmds)
	DebugPrintln("[dict] " + strconv.Itoa(len(d.cached)) + " bytes, " +
		strconv.Itoa(len(cmds)) + " messages")
}

// Generate returns the dictionary JSON.
func (d *Dictionary) Generate() []byte {
	d.mu.RLock()
	cached := d.cached
	d.mu.RUnlock()
	if cached != nil {
		return cached
	}
	d.BuildDictionary()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cached
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dictionary) render(cmds []*Command) []byte {
	b := make([]byte, 0, 2048)
	b = append(b, `{"version":`...)
	b = appendJSONString(b, d.version)
	b = append(b, `,"build_versions":`...)
	b = appendJSONString(b, d.buildVersions)

	b = append(b, `,"config":{`...)
	for i, name := range sortedKeys(d.constants) {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendJSONString(b, name)
		b = append(b, ':')
		b = append(b, d.constants[name]...)
	}

	for _, responses := range []bool{false, true} {
		if responses {
			b = append(b, `},"responses":{`...)
		} else {
			b = append(b, `},"commands":{`...)
		}
		first := true
		for _, c := range cmds {
			if c.IsResponse() != responses {
				continue
			}
			if !first {
				b = append(b, ',')
			}
			first = false
			b = appendJSONString(b, c.Key())
			b = append(b, ':')
			b = strconv.AppendUint(b, uint64(c.ID), 10)
		}
	}
	b = append(b, '}')

	if len(d.enumerations) > 0 {
		b = append(b, `,"enumerations":{`...)
		for i, name := range sortedKeys(d.enumerations) {
			if i > 0 {
				b = append(b, ',')
			}
			b = appendJSONString(b, name)
			b = append(b, ":{"...)
			first := true
			for idx, v := range d.enumerations[name] {
				if v == "" {
					continue
				}
				if !first {
					b = append(b, ',')
				}
				first = false
				b = appendJSONString(b, v)
				b = append(b, ':')
				b = strconv.AppendInt(b, int64(idx), 10)
			}
			b = append(b, '}')
		}
		b = append(b, '}')
	}
	return append(b, '}')
}

func appendJSONString(b []byte, s string) []byte {
	b = append(b, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b = append(b, '\\', c)
		case c < 0x20:
			b = append(b, `\u00`...)
			b = append(b, "0123456789abcdef"[c>>4], "0123456789abcdef"[c&0xF])
		default:
			b = append(b, c)
		}
	}
	return append(b, '"')
}

// GetChunk returns up to count bytes of the dictionary starting at offset.
// The chunk is a copy so the caller may hold it while the cache is rebuilt.
func (d *Dictionary) GetChunk(offset uint32, count uint8) []byte {
	data := d.Generate()
	if offset >= uint32(len(data)) {
		return []byte{}
	}
	end := offset + uint32(count)
	if end > uint32(len(data)) {
		end = uint32(len(data))
	}
	return append([]byte(nil), data[offset:end]...)
}
