package connectivity

import "fmt"

// Status vista derivada para el indicador de la UI.
type Status struct {
	Online  bool   `json:"online"`
	Pending int    `json:"pending"`
	Text    string `json:"text"`
}

// NewStatus arma el indicador: "Online", "Online, 2 pending", "Offline", "Offline, 1 pending".
func NewStatus(online bool, pending int) Status {
	text := "Offline"
	if online {
		text = "Online"
	}
	if pending > 0 {
		text = fmt.Sprintf("%s, %d pending", text, pending)
	}
	return Status{Online: online, Pending: pending, Text: text}
}
