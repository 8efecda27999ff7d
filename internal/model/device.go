package model

// Device represents a single loanable asset as reported by the upstream
// tracking backend. The field casing in the JSON tags is dictated by the
// upstream API and must not change.
type Device struct {
	AssetID    string `json:"AssetID"`
	DeviceType string `json:"DeviceType"`
	Name       string `json:"Name"`
	Email      string `json:"Email"`
	Borrowed   string `json:"Borrowed"`
}

// IsBorrowed reports whether the device is currently checked out.
// Both identity fields must be populated; a record with only one of
// them set is treated as not-yet-borrowed. This mirrors how the
// upstream sheet is filled in and is deliberately strict.
func (d Device) IsBorrowed() bool {
	return d.Name != "" && d.Email != ""
}
