package entity

// Credential is the per-environment administrator login for the remote
// desktop platform. The password is stored encrypted in SSM and embedded
// into the instance bootstrap script exactly once at provisioning time.
type Credential struct {
	EnvID    string `json:"envId"`
	Username string `json:"username"`
	Password string `json:"password"`
}
