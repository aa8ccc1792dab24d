package match

import (
	"github.com/pfcmatch/backend/internal/db"
)

// Status is the derived lifecycle state of a match. It is computed from
// confirmation rows at read time and never stored.
type Status int

const (
	// StatusPending: no member has confirmed anything yet.
	StatusPending Status = iota
	// StatusPartiallyConfirmed: exactly one member confirmed this match
	// and has no confirmation elsewhere.
	StatusPartiallyConfirmed
	// StatusFinalized: both members confirmed this match; the pairing is
	// terminal and both profiles are retired from the pool.
	StatusFinalized
	// StatusExpired: a member confirmed a different match, so this match
	// is provably no longer anyone's exclusive pairing.
	StatusExpired
)

func (s Status) String() string {
	switch s {
	case StatusPartiallyConfirmed:
		return "partially_confirmed"
	case StatusFinalized:
		return "finalized"
	case StatusExpired:
		return "expired"
	default:
		return "pending"
	}
}

// Derive computes a match's status from its own confirmation rows and each
// member's confirmation anywhere (nil when the member never confirmed).
//
// Expiry wins over everything: a member holding a confirmation for another
// match retires this match regardless of its own confirmations. The
// one-confirmation-ever rule makes expiry and finalization mutually
// exclusive for the same match. Side-effect-free.
func Derive(matchID string, matchConfs []db.DateConfirmation, aAny, bAny *db.DateConfirmation) Status {
	if (aAny != nil && aAny.MatchID != matchID) || (bAny != nil && bAny.MatchID != matchID) {
		return StatusExpired
	}
	switch len(matchConfs) {
	case 0:
		return StatusPending
	case 1:
		return StatusPartiallyConfirmed
	default:
		return StatusFinalized
	}
}
