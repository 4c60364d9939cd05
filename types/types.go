package types

// Link is the health of a collaborator as seen by the monitor loop.
type Link string

const (
	LinkUp   Link = "up"
	LinkDown Link = "down"
)

// CycleStatus summarises one monitor cycle.
type CycleStatus struct {
	Sensor  Link   `json:"sensor"`
	Display Link   `json:"display"`
	Error   string `json:"error,omitempty"`
}
