// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package models

// Tier is the caller's resolved subscription state. It gates which backing
// store is authoritative for record operations: the local demo store on the
// free tier, the remote document database on the paid tier.
//
// Tier is derived per operation from the principal's claims and is never
// cached, so a mid-session upgrade takes effect on the very next call.
type Tier int

const (
	// TierFree routes writes to local storage under the demo record ceiling.
	TierFree Tier = iota

	// TierPaid routes writes to the remote document database.
	TierPaid
)

func (t Tier) String() string {
	switch t {
	case TierPaid:
		return "paid"
	default:
		return "free"
	}
}
