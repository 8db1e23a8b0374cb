// Package uds implements responsible-unit resolution for emergency orders.
// Each unit (УДС) covers a set of address substrings; an order is routed to
// the first unit whose substring occurs in the order address.
package uds

import "strings"

// Unit is an organizational unit responsible for emergency orders
// within its configured address ranges.
type Unit struct {
	UserID    int64    `toml:"user_id" json:"user_id"`
	Addresses []string `toml:"addresses" json:"addresses"`
}

// Resolve returns the user ID of the first unit whose configured address
// substring is contained (case-insensitively) in the order address.
// Units and their address lists are scanned in configured order; the first
// match wins. The second return value reports whether a unit was found.
func Resolve(units []Unit, address string) (int64, bool) {
	lowered := strings.ToLower(address)

	for _, unit := range units {
		for _, fragment := range unit.Addresses {
			if strings.Contains(lowered, strings.ToLower(fragment)) {
				return unit.UserID, true
			}
		}
	}

	return 0, false
}
