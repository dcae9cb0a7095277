package protocol

// Each level of a VLQ adds seven bits. A level is emitted only when the
// value falls outside the range the levels below it can express.
var vlqLevels = [...]struct {
	shift  uint
	lo, hi int32
}{
	{28, -(1 << 26), 3 << 26},
	{21, -(1 << 19), 3 << 19},
	{14, -(1 << 12), 3 << 12},
	{7, -(1 << 5), 3 << 5},
}

// EncodeInt writes v as a variable length quantity. Small negative numbers
// stay short: -32..95 fit in a single byte.
func EncodeInt(out Sink, v int32) {
	var b [5]byte
	n := 0
	for _, l := range vlqLevels {
		if v < l.lo || v >= l.hi {
			b[n] = byte(v>>l.shift)&0x7F | 0x80
			n++
		}
	}
	b[n] = byte(v) & 0x7F
	out.Output(b[:n+1])
}

// EncodeUint writes v using the same encoding as EncodeInt.
func EncodeUint(out Sink, v uint32) {
	EncodeInt(out, int32(v))
}

// EncodeBytes writes a length prefix followed by p.
func EncodeBytes(out Sink, p []byte) {
	EncodeUint(out, uint32(len(p)))
	out.Output(p)
}

// EncodeString is EncodeBytes for strings.
func EncodeString(out Sink, s string) {
	EncodeBytes(out, []byte(s))
}

// DecodeInt reads a VLQ from the front of *data and advances the slice.
func DecodeInt(data *[]byte) (int32, error) {
	p := *data
	if len(p) == 0 {
		return 0, ErrBadVLQ
	}
	c := uint32(p[0])
	v := c & 0x7F
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1F)
	}
	i := 1
	for c&0x80 != 0 {
		if i >= len(p) {
			return 0, ErrBadVLQ
		}
		c = uint32(p[i])
		i++
		v = v<<7 | c&0x7F
	}
	*data = p[i:]
	return int32(v), nil
}

// DecodeUint reads an unsigned VLQ.
func DecodeUint(data *[]byte) (uint32, error) {
	v, err := DecodeInt(data)
	return uint32(v), err
}

// DecodeBytes reads a length-prefixed byte string. The result aliases *data.
func DecodeBytes(data *[]byte) ([]byte, error) {
	n, err := DecodeUint(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(*data)) < n {
		return nil, ErrBadVLQ
	}
	p := (*data)[:n]
	*data = (*data)[n:]
	return p, nil
}
