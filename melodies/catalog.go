package melodies

import "pwmtone/tone"

// ID identifies a preset on the wire. Values are stable; new presets are
// appended.
type ID uint8

const (
	IDPositive ID = iota + 1
	IDNegative
	IDError
	IDConfirm
	IDReject
	IDSweep
	IDCoin
	IDLaser
	IDPowerup
	IDVictory
	IDDefeat
	IDFanfare
	IDAlarm1
	IDAlarm2
	IDAlarm3
	IDRingtone1
	IDRingtone2
	IDRingtone3
	IDDanger
	IDExplosion
	IDHappyBirthday
)

// Preset is a named melody in the catalogue.
type Preset struct {
	ID     ID
	Name   string
	Melody tone.Melody
}

var catalog = []Preset{
	{IDPositive, "positive", Positive},
	{IDNegative, "negative", Negative},
	{IDError, "error", Error},
	{IDConfirm, "confirm", Confirm},
	{IDReject, "reject", Reject},
	{IDSweep, "sweep", Sweep},
	{IDCoin, "coin", Coin},
	{IDLaser, "laser", Laser},
	{IDPowerup, "powerup", Powerup},
	{IDVictory, "victory", Victory},
	{IDDefeat, "defeat", Defeat},
	{IDFanfare, "fanfare", Fanfare},
	{IDAlarm1, "alarm1", Alarm1},
	{IDAlarm2, "alarm2", Alarm2},
	{IDAlarm3, "alarm3", Alarm3},
	{IDRingtone1, "ringtone1", Ringtone1},
	{IDRingtone2, "ringtone2", Ringtone2},
	{IDRingtone3, "ringtone3", Ringtone3},
	{IDDanger, "danger", Danger},
	{IDExplosion, "explosion", Explosion},
	{IDHappyBirthday, "happy_birthday", HappyBirthday},
}

// All returns the presets ordered by ID. The slice must not be modified.
func All() []Preset {
	return catalog
}

// ByID returns the preset with the given wire ID.
func ByID(id ID) (Preset, bool) {
	if id == 0 || int(id) > len(catalog) {
		return Preset{}, false
	}
	return catalog[id-1], true
}

// ByName looks a preset up by its lower-case name.
func ByName(name string) (Preset, bool) {
	for _, p := range catalog {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
