package types

// Broadcast message kinds. The kind tag is the first field of every frame
// so subscribers can dispatch without decoding the whole body twice.
const (
	KindClock = "clock"
	KindAlarm = "alarm"
)

// Message is anything that can be published on the broadcast channel.
type Message interface {
	MessageKind() string
}

// ClockMessage is the per-tick broadcast of the current time sample.
type ClockMessage struct {
	Kind        string  `json:"kind" msgpack:"kind"`
	Hour        int     `json:"hour" msgpack:"hour"`
	Minute      int     `json:"minute" msgpack:"minute"`
	Second      int     `json:"second" msgpack:"second"`
	HourAngle   float64 `json:"hourAngle" msgpack:"hourAngle"`
	MinuteAngle float64 `json:"minuteAngle" msgpack:"minuteAngle"`
	SecondAngle float64 `json:"secondAngle" msgpack:"secondAngle"`
}

// NewClockMessage wraps a ClockSample as a broadcast message.
func NewClockMessage(s ClockSample) ClockMessage {
	return ClockMessage{
		Kind:        KindClock,
		Hour:        s.Hour,
		Minute:      s.Minute,
		Second:      s.Second,
		HourAngle:   s.HourAngle,
		MinuteAngle: s.MinuteAngle,
		SecondAngle: s.SecondAngle,
	}
}

// MessageKind implements Message.
func (ClockMessage) MessageKind() string { return KindClock }

// AlarmMessage is the edge-triggered ring notification for one alarm.
// Consumers decide how (and for how long) to present it; the daemon does
// not track a ringing state machine.
type AlarmMessage struct {
	Kind string `json:"kind" msgpack:"kind"`
	ID   int64  `json:"id" msgpack:"id"`
}

// NewAlarmMessage builds the ring notification for the given alarm id.
func NewAlarmMessage(id int64) AlarmMessage {
	return AlarmMessage{Kind: KindAlarm, ID: id}
}

// MessageKind implements Message.
func (AlarmMessage) MessageKind() string { return KindAlarm }
