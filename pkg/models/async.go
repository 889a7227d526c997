package models

// AsyncAcceptedResponse is returned when a fill cycle is accepted for
// background processing; poll the tasks endpoint with ProcessID.
type AsyncAcceptedResponse struct {
	ProcessID string `json:"processId"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}
