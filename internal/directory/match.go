package directory

import (
	"strings"

	"github.com/coozgan/acad-sub-staff-loaner-form/internal/model"
)

// MatchBorrowers returns the distinct borrowers in the given borrowed-device
// list whose name or email contains the query as a case-insensitive
// substring. An empty or whitespace query matches everyone; any other query
// is matched verbatim, surrounding spaces included. Borrowers are
// deduplicated by lower-cased "name|email" and returned in first-seen order.
func MatchBorrowers(borrowed []model.Device, query string) []model.Borrower {
	query = strings.ToLower(query)

	seen := make(map[string]int)
	borrowers := make([]model.Borrower, 0)
	for _, d := range borrowed {
		key := strings.ToLower(d.Name) + "|" + strings.ToLower(d.Email)
		if idx, ok := seen[key]; ok {
			borrowers[idx].DeviceCount++
			continue
		}
		seen[key] = len(borrowers)
		borrowers = append(borrowers, model.Borrower{
			Name:        d.Name,
			Email:       d.Email,
			DeviceCount: 1,
		})
	}

	if strings.TrimSpace(query) == "" {
		return borrowers
	}

	matched := make([]model.Borrower, 0, len(borrowers))
	for _, b := range borrowers {
		if strings.Contains(strings.ToLower(b.Name), query) ||
			strings.Contains(strings.ToLower(b.Email), query) {
			matched = append(matched, b)
		}
	}
	return matched
}

// DevicesForBorrower returns the devices held by the borrower with exactly
// the given name and email (case-insensitive on both). An empty name or
// email never matches anything.
func DevicesForBorrower(devices []model.Device, name, email string) []model.Device {
	if name == "" || email == "" {
		return nil
	}

	out := make([]model.Device, 0)
	for _, d := range devices {
		if strings.EqualFold(d.Name, name) && strings.EqualFold(d.Email, email) {
			out = append(out, d)
		}
	}
	return out
}
