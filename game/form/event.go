package form

// EventType identifies the kind of input event
type EventType string

const (
	EventParameter  EventType = "parameter"
	EventMultiplier EventType = "multiplier"
	EventCards      EventType = "cards"
	EventReset      EventType = "reset"
)

// Event is a raw user input coming from the render surface.
// Field is used by parameter events; Player and Slot by multiplier and card
// events. Value carries the raw text of the input. Seq is chosen by the client
// and echoed back with the view the event produced.
type Event struct {
	Type   EventType  `json:"type"`
	Field  ParamField `json:"field,omitempty"`
	Player int        `json:"player"`
	Slot   int        `json:"slot"`
	Value  string     `json:"value"`
	Seq    uint64     `json:"seq,omitempty"`
}
