package models

// Identity carries the verified claims of a bearer credential.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}
