package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateTicketNumber produces a "TKT-<millis>-<rand>" number. Uniqueness is
// probabilistic; the ledger re-draws under its collection lock until the
// number is unused.
func GenerateTicketNumber() string {
	timestamp := time.Now().UnixMilli()
	return fmt.Sprintf("TKT-%d-%03d", timestamp, randomInt(1000))
}

// RandomCarriage and RandomSeat fill in placeholder assignments when the
// caller supplies none. They are not a seat map; collisions are possible.

func RandomCarriage() int {
	return int(randomInt(10)) + 1
}

func RandomSeat() int {
	return int(randomInt(50)) + 1
}

func randomInt(max int64) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return time.Now().UnixNano() % max
	}
	return n.Int64()
}
