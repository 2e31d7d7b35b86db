package ledger

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// newBalanceCache builds the memo table for computed balances. Entries are
// keyed on (account, as-of date, commit high-water mark), so a new commit
// changes the key and stale entries simply stop being read; the cache is
// never a second source of truth.
func newBalanceCache() (*ristretto.Cache, error) {
	return ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
}

func balanceKey(accountID int64, asOf time.Time, highWaterMark int64) string {
	day := ""
	if !asOf.IsZero() {
		day = asOf.Format(dateFormat)
	}
	return fmt.Sprintf("balance:%d:%s:%d", accountID, day, highWaterMark)
}
