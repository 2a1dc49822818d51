package schemas

// -- Deployment Progress Protocol --

// MessageVersion is the current version of the progress protocol spoken
// between an injected script and the host session. Either side may evolve;
// the version field keeps a stale peer from misreading a newer shape.
const MessageVersion = 1

// MessageType discriminates progress messages. Consumers must treat unknown
// types as no-ops so newer scripts keep working against older hosts.
type MessageType string

const (
	MessageSimulationStart    MessageType = "simulationStart"
	MessageSimulationProgress MessageType = "simulationProgress"
	MessageSimulationStatus   MessageType = "simulationStatus"
	MessageSimulationError    MessageType = "simulationError"
	MessageSimulationComplete MessageType = "simulationComplete"
)

// ProgressMessage is the discriminated union relayed from the injected
// script back to the host. Only the fields relevant to the Type are set.
type ProgressMessage struct {
	Version int         `json:"v"`
	Type    MessageType `json:"type"`

	// Status and Progress payloads.
	Message string `json:"message,omitempty"`
	Step    int    `json:"step,omitempty"`
	Total   int    `json:"total,omitempty"`

	// Complete payload.
	FilledCount int      `json:"filledCount,omitempty"`
	FoundCount  int      `json:"foundCount,omitempty"`
	Fields      []string `json:"fields,omitempty"`

	// Error payload; the message is surfaced verbatim to aid debugging
	// against unpredictable third-party markup.
	Error string `json:"error,omitempty"`
}

// Known reports whether the message type is one this build understands.
func (m ProgressMessage) Known() bool {
	switch m.Type {
	case MessageSimulationStart, MessageSimulationProgress, MessageSimulationStatus,
		MessageSimulationError, MessageSimulationComplete:
		return true
	default:
		return false
	}
}
