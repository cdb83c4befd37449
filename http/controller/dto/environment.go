package dto

// CreateEnvironmentRequestDTO is the creation request from the front end.
// The caller identity comes from the authenticated session, not the body.
// Optional fields fall back to configured defaults.
type CreateEnvironmentRequestDTO struct {
	ClientLabel      string   `json:"clientLabel"`
	ImageRef         string   `json:"imageRef"`
	InstanceSize     string   `json:"instanceSize"`
	SecurityGroupIDs []string `json:"securityGroupIds"`
	NetworkPlacement string   `json:"networkPlacement"`
	MinCount         int32    `json:"minCount"`
	MaxCount         int32    `json:"maxCount"`
	Region           string   `json:"region"`
}

// LifecycleRequestDTO drives start/stop/terminate of an existing instance.
// EnvID is only required for terminate, where it derives the DNS name.
type LifecycleRequestDTO struct {
	InstanceID string `json:"instanceId"`
	Action     string `json:"action"`
	EnvID      string `json:"envId"`
}
