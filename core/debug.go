package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a PWM operation for post-mortem analysis
type Event struct {
	Type    uint8
	Channel Channel
	Value1  uint32 // Context-dependent value
	Value2  uint32 // Context-dependent value
}

// Event type codes
const (
	EvtConfigure   = 1 // Channel configured: v1=achieved Hz, v2=period
	EvtStart       = 2 // Start: v1=mask
	EvtStop        = 3 // Stop: v1=mask
	EvtForceStop   = 4 // ForceStop: v1=mask
	EvtBrakeEnable = 5 // Fault brake enabled: v1=source, v2=mask
	EvtBrakeClear  = 6 // Brake latch cleared: v1=source
	EvtIRQ         = 7 // Interrupt handled: v1=INTSTS bits
)

const (
	EventRingSize = 32 // Keep last 32 events
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// (UART console on the target, a structured logger on the host)
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(s string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// RecordEvent appends an event to the ring; safe to call from interrupt handlers
func RecordEvent(eventType uint8, ch Channel, value1, value2 uint32) {
	recordEvent(eventType, ch, value1, value2)
}

func recordEvent(eventType uint8, ch Channel, value1, value2 uint32) {
	idx := eventRingHead
	eventRing[idx] = Event{
		Type:    eventType,
		Channel: ch,
		Value1:  value1,
		Value2:  value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first
func Events() []Event {
	events := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Type == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// EventName returns the short name of an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtConfigure:
		return "CONFIGURE"
	case EvtStart:
		return "START"
	case EvtStop:
		return "STOP"
	case EvtForceStop:
		return "FORCE_STOP"
	case EvtBrakeEnable:
		return "BRAKE_EN"
	case EvtBrakeClear:
		return "BRAKE_CLR"
	case EvtIRQ:
		return "IRQ"
	}
	return "UNKNOWN"
}

// DumpEvents writes the event ring through the debug writer, regardless of
// whether debug output is enabled (call on fault)
func DumpEvents() {
	debugPrintln("[PWM] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[PWM] " + EventName(evt.Type) +
			" ch=" + utoa(uint32(evt.Channel)) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[PWM] === End Dump ===")
}

// ClearEvents empties the event ring
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}

// TraceBus wraps a Bus and reports every register write through the debug writer
type TraceBus struct {
	Bus
}

// Store forwards the write and logs it as "pwm: NAME <- 0xVALUE"
func (t TraceBus) Store(off Offset, value uint32) {
	t.Bus.Store(off, value)
	if debugEnabled {
		debugPrintln("pwm: " + RegisterName(off) + " <- 0x" + hex32(value))
	}
}
