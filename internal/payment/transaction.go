package payment

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const txnSuffixLen = 9

var txnPattern = regexp.MustCompile(`^TXN-[0-9]+-[0-9a-z]{9}$`)

// NewTransactionID returns TXN-<unix millis>-<9 base36 chars>.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("TXN-%d-%s", now.UnixMilli(), randomBase36(txnSuffixLen))
}

func ValidTransactionID(id string) bool {
	return txnPattern.MatchString(id)
}

func randomBase36(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strconv.FormatInt(rand.Int63(), 36))
	}
	return b.String()[:n]
}
