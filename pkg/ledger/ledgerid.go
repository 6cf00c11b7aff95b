package ledger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// newLedgerID builds a human-readable transaction identifier of the form
// TXN-<year>-<10 digits>, e.g. TXN-2026-0482915570. The digits come from
// UUID randomness; uniqueness of the entry itself is enforced by the
// idempotency key, so this identifier only needs to be collision-unlikely
// for display and support lookups.
func newLedgerID(at time.Time) string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[:8]) % 1e10
	return fmt.Sprintf("TXN-%d-%010d", at.Year(), n)
}
