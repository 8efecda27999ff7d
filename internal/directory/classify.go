// Package directory provides pure helpers over an already-fetched device
// snapshot: availability classification and borrower lookup. Nothing here
// mutates the snapshot; the list is replaced wholesale on every refresh.
package directory

import "github.com/coozgan/acad-sub-staff-loaner-form/internal/model"

// Available returns the devices that can be checked out: both identity
// fields empty. A record with exactly one field populated also lands
// here, per Device.IsBorrowed.
func Available(devices []model.Device) []model.Device {
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if !d.IsBorrowed() {
			out = append(out, d)
		}
	}
	return out
}

// Borrowed returns the devices currently checked out.
func Borrowed(devices []model.Device) []model.Device {
	out := make([]model.Device, 0, len(devices))
	for _, d := range devices {
		if d.IsBorrowed() {
			out = append(out, d)
		}
	}
	return out
}
