package dispatch

import "fmt"

type EventKind int

const (
	EventRelease EventKind = iota
	EventDispatch
	EventPreempt
	EventFinish
	EventMiss
	EventThrottle
	EventReplenish
	EventIdle
)

func (k EventKind) String() string {
	switch k {
	case EventRelease:
		return "release"
	case EventDispatch:
		return "dispatch"
	case EventPreempt:
		return "preempt"
	case EventFinish:
		return "finish"
	case EventMiss:
		return "miss"
	case EventThrottle:
		return "throttle"
	case EventReplenish:
		return "replenish"
	case EventIdle:
		return "idle"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *EventKind) UnmarshalText(text []byte) error {
	for kind := EventRelease; kind <= EventIdle; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Thread ID used for events that concern no thread.
const NoThread = -1

// One entry of the execution trace.
type Event struct {
	Time     int       `yaml:"time" json:"time"`
	Kind     EventKind `yaml:"kind" json:"kind"`
	ThreadID int       `yaml:"thread" json:"thread"`
	// Time units granted by a dispatch or spent idle.
	Allocated int `yaml:"allocated,omitempty" json:"allocated,omitempty"`
}

func (e Event) String() string {
	if e.ThreadID == NoThread {
		return fmt.Sprintf("%d %v %d", e.Time, e.Kind, e.Allocated)
	}
	return fmt.Sprintf("%d %v thread#%d %d", e.Time, e.Kind, e.ThreadID, e.Allocated)
}
