package broadcast

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/clockrobustus/clockd/internal/types"
)

// Wire framing for the subscribe channel: each message is a 4-byte
// big-endian length followed by a msgpack-encoded body. The body always
// carries a "kind" field ("clock" or "alarm") so clients can dispatch on it.

// Refuse to decode frames larger than this; broadcast bodies are tiny.
const maxFrameSize = 64 * 1024

// WriteFrame encodes msg and writes one length-prefixed frame to w.
func WriteFrame(w io.Writer, msg types.Message) error {
	body, err := msgpack.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s frame: %w", msg.MessageKind(), err)
	}

	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.Write(body); err != nil {
		return err
	}
	return nil
}

// ReadFrame reads one length-prefixed frame from r and decodes it into the
// concrete message type named by its kind tag.
func ReadFrame(r io.Reader) (types.Message, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint32(header[:])
	if size > maxFrameSize {
		return nil, fmt.Errorf("frame size %d exceeds limit", size)
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	var tag struct {
		Kind string `msgpack:"kind"`
	}
	if err := msgpack.Unmarshal(body, &tag); err != nil {
		return nil, fmt.Errorf("failed to decode frame tag: %w", err)
	}

	switch tag.Kind {
	case types.KindClock:
		var msg types.ClockMessage
		if err := msgpack.Unmarshal(body, &msg); err != nil {
			return nil, fmt.Errorf("failed to decode clock frame: %w", err)
		}
		return msg, nil
	case types.KindAlarm:
		var msg types.AlarmMessage
		if err := msgpack.Unmarshal(body, &msg); err != nil {
			return nil, fmt.Errorf("failed to decode alarm frame: %w", err)
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unknown frame kind %q", tag.Kind)
	}
}
