// Package role names the marketplace audiences a request can act as.
package role

import "strings"

type Role string

const (
	Client     Role = "client"
	Freelancer Role = "freelancer"
	Company    Role = "company"
)

// Parse normalizes a raw role string. Unknown values are rejected.
func Parse(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case Client, Freelancer, Company:
		return r, true
	default:
		return "", false
	}
}

func (r Role) String() string { return string(r) }
