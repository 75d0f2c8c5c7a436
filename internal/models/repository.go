package models

// CommonRepository captures the repository fields shared by every webhook
// payload the gateway cares about, without binding to a specific event type.
type CommonRepository struct {
	Name     *string `json:"name,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Owner    *struct {
		Login *string `json:"login,omitempty"`
	} `json:"owner,omitempty"`
}

// EventRepository wraps the repository object found at the top level of a payload.
type EventRepository struct {
	Repository CommonRepository `json:"repository"`
}
