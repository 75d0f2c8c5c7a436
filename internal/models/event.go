package models

import "time"

// Event represents an AWS EventBridge event wrapping a forwarded webhook delivery.
type Event struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Region     string    `json:"region"`
	Source     string    `json:"source"`
	Account    string    `json:"account"`
	Version    string    `json:"version"`
	Detail     Request   `json:"detail"`
	DetailType string    `json:"detail-type"`
	Resources  []string  `json:"resources"`
}
