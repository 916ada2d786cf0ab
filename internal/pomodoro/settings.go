package pomodoro

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sadopc/momentum/internal/store"
)

// SettingsKey is the storage key the settings record lives under.
const SettingsKey = "pomodoroSettings"

const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 60
	MinBreakMinutes = 1
	MaxBreakMinutes = 30
)

// ErrInvalidSettings is returned when a duration is outside its bounds.
var ErrInvalidSettings = errors.New("invalid pomodoro settings")

// Settings are the user-configured durations and auto-start preferences.
type Settings struct {
	WorkMinutes    int
	BreakMinutes   int
	AutoStartWork  bool
	AutoStartBreak bool
}

// DefaultSettings returns 25/5 with auto-start enabled for both phases.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:    25,
		BreakMinutes:   5,
		AutoStartWork:  true,
		AutoStartBreak: true,
	}
}

func (s Settings) Validate() error {
	if s.WorkMinutes < MinWorkMinutes || s.WorkMinutes > MaxWorkMinutes {
		return fmt.Errorf("%w: work must be %d-%d minutes, got %d",
			ErrInvalidSettings, MinWorkMinutes, MaxWorkMinutes, s.WorkMinutes)
	}
	if s.BreakMinutes < MinBreakMinutes || s.BreakMinutes > MaxBreakMinutes {
		return fmt.Errorf("%w: break must be %d-%d minutes, got %d",
			ErrInvalidSettings, MinBreakMinutes, MaxBreakMinutes, s.BreakMinutes)
	}
	return nil
}

// WorkSeconds is the length of a work phase.
func (s Settings) WorkSeconds() int { return s.WorkMinutes * 60 }

// BreakSeconds is the length of a break phase.
func (s Settings) BreakSeconds() int { return s.BreakMinutes * 60 }

// settingsRecord is the persisted JSON shape. Pointers tell a missing field
// apart from a zero value.
type settingsRecord struct {
	Work      *int  `json:"work"`
	Break     *int  `json:"break"`
	AutoWork  *bool `json:"autoWork"`
	AutoBreak *bool `json:"autoBreak"`
}

// LoadSettings reads the settings record from storage.
// A missing record yields the defaults. Fields that are absent or out of
// range keep their default value. On a read or parse error the defaults are
// returned alongside the error.
func LoadSettings(st Storage) (Settings, error) {
	settings := DefaultSettings()

	raw, err := st.GetSetting(SettingsKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings: %w", err)
	}

	var rec settingsRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}

	applyRecord(&settings, rec)
	return settings, nil
}

// SaveSettings writes the settings record to storage.
func SaveSettings(st Storage, s Settings) error {
	rec := settingsRecord{
		Work:      &s.WorkMinutes,
		Break:     &s.BreakMinutes,
		AutoWork:  &s.AutoStartWork,
		AutoBreak: &s.AutoStartBreak,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := st.SetSetting(SettingsKey, string(data)); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func applyRecord(settings *Settings, rec settingsRecord) {
	if rec.Work != nil && *rec.Work >= MinWorkMinutes && *rec.Work <= MaxWorkMinutes {
		settings.WorkMinutes = *rec.Work
	}
	if rec.Break != nil && *rec.Break >= MinBreakMinutes && *rec.Break <= MaxBreakMinutes {
		settings.BreakMinutes = *rec.Break
	}
	if rec.AutoWork != nil {
		settings.AutoStartWork = *rec.AutoWork
	}
	if rec.AutoBreak != nil {
		settings.AutoStartBreak = *rec.AutoBreak
	}
}
