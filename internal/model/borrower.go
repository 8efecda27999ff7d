package model

// Borrower is a distinct (name, email) pair holding one or more devices.
// It is derived from the device snapshot on every refresh, never stored.
type Borrower struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	DeviceCount int    `json:"deviceCount"`
}
