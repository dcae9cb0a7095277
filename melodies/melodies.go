// Package melodies holds ready-made sound effects and tunes.
package melodies

import (
	"pwmtone/pitches"
	"pwmtone/tone"
)

func n(hz float32, measure int16) tone.Note { return tone.Note{Pitch: tone.Hz(hz), Measure: measure} }

func r(measure int16) tone.Note { return tone.Note{Pitch: tone.Rest, Measure: measure} }

var end = tone.Note{Pitch: tone.End}

var (
	Positive = tone.MustMelody(
		n(pitches.C4, 16),
		n(pitches.AS4, 16),
		n(pitches.C5, 16),
		r(8),
		end,
	)

	Negative = tone.MustMelody(
		n(pitches.C5, 16),
		n(pitches.AS4, 16),
		n(pitches.C4, 16),
		r(8),
		end,
	)

	Error = tone.MustMelody(
		n(pitches.C6, 32),
		r(64),
		n(pitches.C6, 32),
		r(64),
		n(pitches.C4, 32),
		r(64),
		n(pitches.C4, 32),
		r(64),
		r(8),
		end,
	)

	Confirm = tone.MustMelody(
		n(pitches.C7, 128),
		r(128),
		n(pitches.C7, 128),
		r(128),
		n(pitches.C7, 128),
		r(128),
		n(pitches.C7, 128),
		r(128),
		r(8),
		end,
	)

	Reject = tone.MustMelody(
		n(pitches.CM1, 128),
		r(128),
		n(pitches.CM1, 128),
		r(128),
		n(pitches.CM1, 128),
		r(128),
		n(pitches.CM1, 128),
		r(128),
		r(8),
		end,
	)

	Sweep = tone.MustMelody(
		n(pitches.CM1, 128),
		n(pitches.C0, 128),
		n(pitches.C1, 128),
		n(pitches.C2, 128),
		n(pitches.C3, 128),
		n(pitches.C4, 128),
		n(pitches.C5, 128),
		n(pitches.C6, 128),
		n(pitches.C7, 128),
		n(pitches.C8, 128),
		n(pitches.C9, 128),
		r(8),
		end,
	)

	Coin = tone.MustMelody(
		n(pitches.C6, 16),
		n(pitches.C7, 4),
		r(8),
		end,
	)

	Laser = tone.MustMelody(
		n(pitches.C8, 128),
		n(pitches.C7, 128),
		n(pitches.C6, 128),
		n(pitches.C5, 128),
		n(pitches.C4, 128),
		r(8),
		end,
	)

	Powerup = tone.MustMelody(
		n(pitches.C5, 128),
		n(pitches.CS5, 128),
		n(pitches.D5, 128),
		n(pitches.DS5, 128),
		n(pitches.E5, 128),
		n(pitches.F5, 128),
		n(pitches.FS5, 128),
		n(pitches.G5, 128),
		r(8),
		end,
	)

	Victory = tone.MustMelody(
		n(pitches.G4, 8),
		n(pitches.G4, 16),
		n(pitches.G4, 16),
		n(pitches.D5, 4),
		r(8),
		end,
	)

	Defeat = tone.MustMelody(
		n(pitches.C4, 16),
		n(pitches.AS3, 16),
		n(pitches.G3, 16),
		n(pitches.E3, 16),
		n(pitches.C3, 16),
		r(8),
		end,
	)

	Fanfare = tone.MustMelody(
		n(pitches.C4, -4),
		n(pitches.E4, 8),
		n(pitches.G4, 8),
		n(pitches.C5, 2),
		r(8),
		end,
	)

	Alarm1 = tone.MustMelody(
		n(pitches.C7, 8),
		n(pitches.A6, 8),
		r(4),
		end,
	)

	Alarm2 = tone.MustMelody(
		n(pitches.C8, 8),
		r(32),
		n(pitches.C8, 8),
		r(4),
		end,
	)

	Alarm3 = tone.MustMelody(
		n(pitches.C7, 32),
		r(-32),
		n(pitches.C7, 32),
		r(-32),
		n(pitches.C7, 32),
		r(-32),
		n(pitches.C7, 32),
		r(-32),
		r(4),
		end,
	)

	Ringtone1 = tone.MustMelody(
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		n(pitches.A7, 64),
		n(pitches.A6, 64),
		end,
	)

	Ringtone2 = tone.MustMelody(
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		n(pitches.D7, 128),
		n(pitches.E6, 128),
		end,
	)

	Ringtone3 = tone.MustMelody(
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		end,
	)

	Danger = tone.MustMelody(
		n(pitches.FS5, 8),
		r(-8),
		n(pitches.FS5, 8),
		r(-8),
		n(pitches.FS5, 8),
		r(-8),
		n(pitches.FS5, 8),
		r(-8),
		end,
	)

	Explosion = tone.MustMelody(
		n(pitches.G9, 128),
		n(pitches.E9, 128),
		n(pitches.C9, 128),
		n(pitches.G8, 128),
		n(pitches.E8, 128),
		n(pitches.C8, 128),
		n(pitches.G7, 128),
		n(pitches.E7, 128),
		n(pitches.C7, 128),
		n(pitches.G6, 128),
		n(pitches.E6, 128),
		n(pitches.C6, 128),
		n(pitches.G5, 128),
		n(pitches.E5, 128),
		n(pitches.C5, 128),
		n(pitches.G4, 128),
		n(pitches.E4, 128),
		n(pitches.C4, 128),
		n(pitches.G3, 128),
		n(pitches.E3, 128),
		n(pitches.C3, 128),
		n(pitches.G2, 128),
		n(pitches.E2, 128),
		n(pitches.C2, 128),
		n(pitches.G1, 128),
		n(pitches.E1, 128),
		n(pitches.C1, 128),
		n(pitches.G0, 128),
		n(pitches.E0, 128),
		n(pitches.C0, 128),
		n(pitches.GM1, 128),
		n(pitches.EM1, 128),

		r(8),
		end,
	)

	HappyBirthday = tone.MustMelody(
		n(pitches.C4, 4),
		n(pitches.C4, 8),
		n(pitches.D4, -4),
		n(pitches.C4, -4),
		n(pitches.F4, -4),
		n(pitches.E4, -2),

		n(pitches.C4, 4),
		n(pitches.C4, 8),
		n(pitches.D4, -4),
		n(pitches.C4, -4),
		n(pitches.G4, -4),
		n(pitches.F4, -2),

		n(pitches.C4, 4),
		n(pitches.C4, 8),
		n(pitches.C5, -4),
		n(pitches.A4, -4),
		n(pitches.F4, -4),
		n(pitches.E4, -4),
		n(pitches.D4, -4),

		r(8),

		n(pitches.AS4, 4),
		n(pitches.AS4, 8),
		n(pitches.A4, -4),
		n(pitches.F4, -4),
		n(pitches.G4, -4),
		n(pitches.F4, -2),

		end,
	)
)
