package protocol

import "testing"

func TestCRC16(t *testing.T) {
	tests := []struct {
		data []byte
		want uint16
	}{
		{nil, 0xFFFF},
		{[]byte("123456789"), 0x6F91},
		{[]byte{MinFrame, DestBits}, 0x9E81},
		{[]byte{MinFrame, DestBits | 1}, 0x8F08},
	}

	for _, tt := range tests {
		if got := CRC16(tt.data); got != tt.want {
			t.Errorf("CRC16(% X) = %04X, want %04X", tt.data, got, tt.want)
		}
	}
}
