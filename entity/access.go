package entity

// AccessEntry is one identity allowed to create POC environments.
// Entries are unique by email. Legacy stored lists were plain email
// strings; those are read back with IsAdmin=false.
type AccessEntry struct {
	Email   string `json:"email" binding:"required,email"`
	IsAdmin bool   `json:"isAdmin"`
}
