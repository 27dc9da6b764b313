package thread

// Status is the closed set of outcome states an event can carry in its
// metadata. Each status maps to a fixed icon/label pair used by renderers
// and exporters; unrecognized keys collapse to StatusUnknown.
type Status string

const (
	StatusSuccess            Status = "success"              // StatusSuccess marks a completed operation.
	StatusError              Status = "error"                // StatusError marks a failed operation.
	StatusPending            Status = "pending"              // StatusPending marks an operation still in flight.
	StatusWaitingForFeedback Status = "waiting_for_feedback" // StatusWaitingForFeedback marks an operation blocked on the user.
	StatusUnknown            Status = "unknown"              // StatusUnknown is the fallback for unrecognized keys.
)

// statusDisplay is the fixed icon/label pair for a status.
type statusDisplay struct {
	icon  string
	label string
}

var statusDisplays = map[Status]statusDisplay{
	StatusSuccess:            {"✅", "Success"},
	StatusError:              {"❌", "Error"},
	StatusPending:            {"⏳", "Pending"},
	StatusWaitingForFeedback: {"💬", "Waiting for feedback"},
	StatusUnknown:            {"❓", "Unknown"},
}

// ParseStatus maps a raw metadata value onto the closed status set,
// falling back to StatusUnknown for anything it does not recognize.
func ParseStatus(raw string) Status {
	s := Status(raw)
	if _, ok := statusDisplays[s]; ok {
		return s
	}
	return StatusUnknown
}

// Icon returns the fixed icon for this status.
func (s Status) Icon() string {
	if d, ok := statusDisplays[s]; ok {
		return d.icon
	}
	return statusDisplays[StatusUnknown].icon
}

// Label returns the fixed human-readable label for this status.
func (s Status) Label() string {
	if d, ok := statusDisplays[s]; ok {
		return d.label
	}
	return statusDisplays[StatusUnknown].label
}
