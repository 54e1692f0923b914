package types

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestParseActiveDays(t *testing.T) {
	tests := []struct {
		name     string
		days     []string
		expected ActiveDays
		wantErr  bool
	}{
		{
			name:     "single day",
			days:     []string{"Monday"},
			expected: 0x01,
		},
		{
			name:     "two days",
			days:     []string{"Monday", "Tuesday"},
			expected: 0x03,
		},
		{
			name:     "duplicates collapse",
			days:     []string{"Sunday", "Sunday", "Sunday"},
			expected: 0x40,
		},
		{
			name:     "full week",
			days:     []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
			expected: 0x7F,
		},
		{
			name:     "empty set",
			days:     nil,
			expected: 0x00,
		},
		{
			name:    "unknown name rejected",
			days:    []string{"Monday", "Funday"},
			wantErr: true,
		},
		{
			name:    "lowercase rejected",
			days:    []string{"monday"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ad, err := ParseActiveDays(tt.days)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseActiveDays(%v) = %#x, expected error", tt.days, ad)
				}
				if ErrorCode(err) != ErrInvalidField {
					t.Errorf("error code = %q, expected %q", ErrorCode(err), ErrInvalidField)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseActiveDays(%v) unexpected error: %v", tt.days, err)
			}
			if ad != tt.expected {
				t.Errorf("ParseActiveDays(%v) = %#x, expected %#x", tt.days, ad, tt.expected)
			}
		})
	}
}

func TestActiveDaysContains(t *testing.T) {
	weekdays := ActiveDays(0x1F) // Monday..Friday

	if !weekdays.Contains(time.Monday) {
		t.Error("Monday should be a member of the weekday set")
	}
	if !weekdays.Contains(time.Friday) {
		t.Error("Friday should be a member of the weekday set")
	}
	if weekdays.Contains(time.Saturday) {
		t.Error("Saturday should not be a member of the weekday set")
	}
	if weekdays.Contains(time.Sunday) {
		t.Error("Sunday should not be a member of the weekday set")
	}
}

func TestActiveDaysJSONRoundTrip(t *testing.T) {
	original := ActiveDays(0x43) // Monday, Tuesday, Sunday

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var days []string
	if err := json.Unmarshal(data, &days); err != nil {
		t.Fatalf("unmarshal to string slice error: %v", err)
	}
	expected := []string{"Monday", "Tuesday", "Sunday"}
	if !reflect.DeepEqual(days, expected) {
		t.Errorf("serialized days = %v, expected %v", days, expected)
	}

	var decoded ActiveDays
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round-trip unmarshal error: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip = %#x, expected %#x", decoded, original)
	}
}

func TestAlarmValidate(t *testing.T) {
	tests := []struct {
		name    string
		alarm   Alarm
		wantErr bool
	}{
		{
			name:  "valid",
			alarm: Alarm{Hour: 7, Minute: 30, Second: 0, ActiveDays: 0x01},
		},
		{
			name:  "boundary values",
			alarm: Alarm{Hour: 23, Minute: 59, Second: 59},
		},
		{
			name:  "empty active days is legal",
			alarm: Alarm{Hour: 12},
		},
		{
			name:    "hour too large",
			alarm:   Alarm{Hour: 24},
			wantErr: true,
		},
		{
			name:    "negative hour",
			alarm:   Alarm{Hour: -1},
			wantErr: true,
		},
		{
			name:    "minute too large",
			alarm:   Alarm{Minute: 60},
			wantErr: true,
		},
		{
			name:    "second too large",
			alarm:   Alarm{Second: 60},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.alarm.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if ErrorCode(err) != ErrInvalidField {
					t.Errorf("error code = %q, expected %q", ErrorCode(err), ErrInvalidField)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestAlarmJSONFieldNames(t *testing.T) {
	id := int64(3)
	alarm := Alarm{ID: &id, Hour: 7, Minute: 30, Second: 0, ActiveDays: 0x01}

	data, err := json.Marshal(alarm)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	for _, key := range []string{"id", "hour", "minute", "second", "activeDays"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("serialized alarm is missing field %q", key)
		}
	}
}

func TestErrorCode(t *testing.T) {
	err := Errorf(ErrNotFound, "no alarm with id %d", 42)
	if ErrorCode(err) != ErrNotFound {
		t.Errorf("ErrorCode = %q, expected %q", ErrorCode(err), ErrNotFound)
	}
	if ErrorDescription(err) != "no alarm with id 42" {
		t.Errorf("ErrorDescription = %q", ErrorDescription(err))
	}

	plain := json.Unmarshal([]byte("{"), &struct{}{})
	if ErrorCode(plain) != ErrInternal {
		t.Errorf("non-application error code = %q, expected %q", ErrorCode(plain), ErrInternal)
	}
}
