package mqtt

import "log"

// outMsg is a serialized MQTT message held for replay after reconnection.
type outMsg struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// msgBuffer is a fixed-capacity FIFO holding messages while the broker is
// unreachable. When full, the oldest message is dropped. Not safe for
// concurrent use — the owning client synchronizes.
type msgBuffer struct {
	msgs    []outMsg
	cap     int
	head    int // next write position
	count   int
	dropped int // messages dropped since the last drain
}

func newMsgBuffer(capacity int) *msgBuffer {
	return &msgBuffer{
		msgs: make([]outMsg, capacity),
		cap:  capacity,
	}
}

func (b *msgBuffer) push(m outMsg) {
	if b.count == b.cap {
		if b.dropped == 0 {
			log.Printf("mqtt: offline buffer full (%d messages), dropping oldest", b.cap)
		}
		b.dropped++
		b.msgs[b.head] = m
		b.head = (b.head + 1) % b.cap
		return
	}
	b.msgs[b.head] = m
	b.head = (b.head + 1) % b.cap
	b.count++
}

// drain returns the buffered messages oldest-first and empties the buffer.
func (b *msgBuffer) drain() []outMsg {
	if b.count == 0 {
		return nil
	}

	out := make([]outMsg, b.count)
	start := (b.head - b.count + b.cap) % b.cap
	for i := 0; i < b.count; i++ {
		out[i] = b.msgs[(start+i)%b.cap]
	}

	b.count = 0
	b.head = 0
	b.dropped = 0
	return out
}

func (b *msgBuffer) len() int {
	return b.count
}
