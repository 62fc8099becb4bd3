package models

import (
	"time"

	"github.com/google/uuid"

	"ascent/pkg/domain"
)

// ReferrerMultiplier scales the referrer's reward against the referee's
// base grant.
const ReferrerMultiplier int64 = 2

// Grant records one accepted referral. A user can be referred at most
// once; the grant row is the idempotency anchor for both credits.
type Grant struct {
	RefereeID      domain.UserID
	ReferrerID     domain.UserID
	RefereeGleams  int64
	ReferrerGleams int64
	CreatedAt      time.Time
}

// creditNamespace seeds the deterministic ledger session IDs for referral
// credits. Deriving them from the referee keeps a retried grant from
// crediting the same side twice.
var creditNamespace = uuid.MustParse("7f3b9a14-52e6-4c1d-9b0a-8d2f6e714c55")

// RefereeCreditID is the ledger session ID for the referee's base credit.
func RefereeCreditID(refereeID domain.UserID) domain.SessionID {
	return creditID(refereeID, "referee")
}

// ReferrerCreditID is the ledger session ID for the referrer's doubled
// credit.
func ReferrerCreditID(refereeID domain.UserID) domain.SessionID {
	return creditID(refereeID, "referrer")
}

func creditID(refereeID domain.UserID, side string) domain.SessionID {
	seed := []byte(uuid.UUID(refereeID).String() + ":" + side)
	return domain.SessionID(uuid.NewSHA1(creditNamespace, seed))
}
