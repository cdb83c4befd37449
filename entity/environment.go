package entity

import "time"

// Environment is one ephemeral POC compute environment: a single EC2 instance
// plus its DNS, TLS and credential artifacts, identified by EnvID ("poc<counter>").
type Environment struct {
	EnvID       string    `json:"envId"`
	ClientLabel string    `json:"clientLabel"`
	CreatedBy   string    `json:"createdBy"`
	CreatedDate time.Time `json:"createdDate"`
	Region      string    `json:"region"`
	InstanceID  string    `json:"instanceId"`
}

// InstanceSummary mirrors the subset of EC2 instance state returned to callers.
type InstanceSummary struct {
	InstanceID       string     `json:"instanceId"`
	State            string     `json:"state"`
	PublicIPAddress  string     `json:"publicIpAddress,omitempty"`
	PrivateIPAddress string     `json:"privateIpAddress,omitempty"`
	LaunchTime       *time.Time `json:"launchTime,omitempty"`
}

// InventoryItem is one instance in the owner-filtered inventory listing,
// joined with its stored admin password for display.
type InventoryItem struct {
	InstanceSummary
	EnvID         string            `json:"envId,omitempty"`
	ClientLabel   string            `json:"clientLabel,omitempty"`
	CreatedDate   string            `json:"createdDate,omitempty"`
	AdminPassword string            `json:"adminPassword,omitempty"`
	Tags          map[string]string `json:"tags,omitempty"`
}
