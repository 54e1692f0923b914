// Package types contains the data types shared across the clockd daemon.
package types

import (
	"encoding/json"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// ClockSample is one sampled instant of wall-clock time, carrying both the
// digital fields and the analog hand angles (radians in [0, 2π)) so that
// display clients can place clock hands without doing the math themselves.
// The angles are a pure function of the time fields.
type ClockSample struct {
	Hour        int     `json:"hour"`
	Minute      int     `json:"minute"`
	Second      int     `json:"second"`
	HourAngle   float64 `json:"hourAngle"`
	MinuteAngle float64 `json:"minuteAngle"`
	SecondAngle float64 `json:"secondAngle"`
}

// ActiveDays is the set of weekdays an alarm is active on, stored as a
// single-byte bitmask (bit 0 = Monday .. bit 6 = Sunday). It serializes as
// an array of capitalized English weekday names.
type ActiveDays uint8

var dayNames = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

var dayBits = map[string]ActiveDays{
	"Monday":    0x01,
	"Tuesday":   0x02,
	"Wednesday": 0x04,
	"Thursday":  0x08,
	"Friday":    0x10,
	"Saturday":  0x20,
	"Sunday":    0x40,
}

// ParseActiveDays builds an ActiveDays set from weekday names. Duplicates
// collapse; an unknown name is an InvalidField error.
func ParseActiveDays(days []string) (ActiveDays, error) {
	var ad ActiveDays
	for _, day := range days {
		bit, ok := dayBits[day]
		if !ok {
			return 0, Errorf(ErrInvalidField, "unknown weekday name %q", day)
		}
		ad |= bit
	}
	return ad, nil
}

// Days returns the member weekday names in Monday-first order.
func (ad ActiveDays) Days() []string {
	days := make([]string, 0, 7)
	for i, name := range dayNames {
		if ad&(1<<uint(i)) != 0 {
			days = append(days, name)
		}
	}
	return days
}

// Contains reports whether the given weekday is a member of the set.
func (ad ActiveDays) Contains(day time.Weekday) bool {
	// time.Weekday starts at Sunday; the bitmask starts at Monday.
	idx := (int(day) + 6) % 7
	return ad&(1<<uint(idx)) != 0
}

// MarshalJSON implements json.Marshaler.
func (ad ActiveDays) MarshalJSON() ([]byte, error) {
	return json.Marshal(ad.Days())
}

// UnmarshalJSON implements json.Unmarshaler.
func (ad *ActiveDays) UnmarshalJSON(data []byte) error {
	var days []string
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	parsed, err := ParseActiveDays(days)
	if err != nil {
		return err
	}
	*ad = parsed
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (ad ActiveDays) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(ad.Days())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (ad *ActiveDays) DecodeMsgpack(dec *msgpack.Decoder) error {
	var days []string
	if err := dec.Decode(&days); err != nil {
		return err
	}
	parsed, err := ParseActiveDays(days)
	if err != nil {
		return err
	}
	*ad = parsed
	return nil
}

var (
	_ msgpack.CustomEncoder = (ActiveDays)(0)
	_ msgpack.CustomDecoder = (*ActiveDays)(nil)
)

// Alarm is a recurring weekly alarm record. ID is nil for a record that has
// not been stored yet; the store assigns it on creation and it is immutable
// afterwards. An alarm with an empty ActiveDays set is legal but never fires.
type Alarm struct {
	ID         *int64     `json:"id,omitempty" msgpack:"id,omitempty"`
	Hour       int        `json:"hour" msgpack:"hour"`
	Minute     int        `json:"minute" msgpack:"minute"`
	Second     int        `json:"second" msgpack:"second"`
	ActiveDays ActiveDays `json:"activeDays" msgpack:"activeDays"`
}

// Validate range-checks the alarm's numeric fields. It returns an
// InvalidField error on the first violation.
func (a Alarm) Validate() error {
	switch {
	case a.Hour < 0 || a.Hour > 23:
		return Errorf(ErrInvalidField, "hour %d out of range [0,23]", a.Hour)
	case a.Minute < 0 || a.Minute > 59:
		return Errorf(ErrInvalidField, "minute %d out of range [0,59]", a.Minute)
	case a.Second < 0 || a.Second > 59:
		return Errorf(ErrInvalidField, "second %d out of range [0,59]", a.Second)
	}
	return nil
}
