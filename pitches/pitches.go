// Package pitches lists the frequencies of the chromatic scale from C-1 to G9
// in equal temperament, A4 = 440 Hz.
package pitches

// Octave -1 uses an M1 suffix: CM1 is C-1. Sharps use S: CS4 is C#4.
const (
	CM1  = 8.176
	CSM1 = 8.662
	DM1  = 9.177
	DSM1 = 9.723
	EM1  = 10.301
	FM1  = 10.913
	FSM1 = 11.562
	GM1  = 12.250
	GSM1 = 12.978
	AM1  = 13.750
	ASM1 = 14.568
	BM1  = 15.434
	C0   = 16.352
	CS0  = 17.324
	D0   = 18.354
	DS0  = 19.445
	E0   = 20.602
	F0   = 21.827
	FS0  = 23.125
	G0   = 24.500
	GS0  = 25.957
	A0   = 27.500
	AS0  = 29.135
	B0   = 30.868
	C1   = 32.703
	CS1  = 34.648
	D1   = 36.708
	DS1  = 38.891
	E1   = 41.203
	F1   = 43.654
	FS1  = 46.249
	G1   = 49.000
	GS1  = 51.913
	A1   = 55.000
	AS1  = 58.271
	B1   = 61.735
	C2   = 65.406
	CS2  = 69.296
	D2   = 73.416
	DS2  = 77.782
	E2   = 82.407
	F2   = 87.307
	FS2  = 92.499
	G2   = 97.999
	GS2  = 103.826
	A2   = 110.000
	AS2  = 116.541
	B2   = 123.471
	C3   = 130.813
	CS3  = 138.591
	D3   = 146.832
	DS3  = 155.563
	E3   = 164.814
	F3   = 174.614
	FS3  = 184.997
	G3   = 195.998
	GS3  = 207.652
	A3   = 220.000
	AS3  = 233.082
	B3   = 246.942
	C4   = 261.626
	CS4  = 277.183
	D4   = 293.665
	DS4  = 311.127
	E4   = 329.628
	F4   = 349.228
	FS4  = 369.994
	G4   = 391.995
	GS4  = 415.305
	A4   = 440.000
	AS4  = 466.164
	B4   = 493.883
	C5   = 523.251
	CS5  = 554.365
	D5   = 587.330
	DS5  = 622.254
	E5   = 659.255
	F5   = 698.456
	FS5  = 739.989
	G5   = 783.991
	GS5  = 830.609
	A5   = 880.000
	AS5  = 932.328
	B5   = 987.767
	C6   = 1046.502
	CS6  = 1108.731
	D6   = 1174.659
	DS6  = 1244.508
	E6   = 1318.510
	F6   = 1396.913
	FS6  = 1479.978
	G6   = 1567.982
	GS6  = 1661.219
	A6   = 1760.000
	AS6  = 1864.655
	B6   = 1975.533
	C7   = 2093.005
	CS7  = 2217.461
	D7   = 2349.318
	DS7  = 2489.016
	E7   = 2637.020
	F7   = 2793.826
	FS7  = 2959.955
	G7   = 3135.963
	GS7  = 3322.438
	A7   = 3520.000
	AS7  = 3729.310
	B7   = 3951.066
	C8   = 4186.009
	CS8  = 4434.922
	D8   = 4698.636
	DS8  = 4978.032
	E8   = 5274.041
	F8   = 5587.652
	FS8  = 5919.911
	G8   = 6271.927
	GS8  = 6644.875
	A8   = 7040.000
	AS8  = 7458.620
	B8   = 7902.133
	C9   = 8372.018
	CS9  = 8869.844
	D9   = 9397.273
	DS9  = 9956.063
	E9   = 10548.082
	F9   = 11175.303
	FS9  = 11839.822
	G9   = 12543.854
)

// Band of pitches the PWM output can synthesise.
const (
	Lowest  = G1
	Highest = FS9
)

var midi = [128]float32{
	CM1, CSM1, DM1, DSM1, EM1, FM1, FSM1, GM1, GSM1, AM1, ASM1, BM1,
	C0, CS0, D0, DS0, E0, F0, FS0, G0, GS0, A0, AS0, B0,
	C1, CS1, D1, DS1, E1, F1, FS1, G1, GS1, A1, AS1, B1,
	C2, CS2, D2, DS2, E2, F2, FS2, G2, GS2, A2, AS2, B2,
	C3, CS3, D3, DS3, E3, F3, FS3, G3, GS3, A3, AS3, B3,
	C4, CS4, D4, DS4, E4, F4, FS4, G4, GS4, A4, AS4, B4,
	C5, CS5, D5, DS5, E5, F5, FS5, G5, GS5, A5, AS5, B5,
	C6, CS6, D6, DS6, E6, F6, FS6, G6, GS6, A6, AS6, B6,
	C7, CS7, D7, DS7, E7, F7, FS7, G7, GS7, A7, AS7, B7,
	C8, CS8, D8, DS8, E8, F8, FS8, G8, GS8, A8, AS8, B8,
	C9, CS9, D9, DS9, E9, F9, FS9, G9,
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// FromMIDI returns the frequency of MIDI note n, or 0 if n is above 127.
func FromMIDI(n uint8) float32 {
	if int(n) >= len(midi) {
		return 0
	}
	return midi[n]
}

// Name returns the scientific pitch name of MIDI note n, such as "A4" or
// "C#-1".
func Name(n uint8) string {
	if n > 127 {
		return ""
	}
	octave := int(n)/12 - 1
	name := noteNames[n%12]
	if octave < 0 {
		return name + "-1"
	}
	return name + string(rune('0'+octave))
}

// Nearest returns the MIDI note whose pitch is closest to hz.
func Nearest(hz float32) uint8 {
	best := uint8(0)
	bestDiff := float32(-1)
	for i, f := range midi {
		d := f - hz
		if d < 0 {
			d = -d
		}
		if bestDiff < 0 || d < bestDiff {
			best, bestDiff = uint8(i), d
		}
	}
	return best
}
