package service

import (
	"strings"

	"github.com/google/uuid"
)

const codeAllocationAttempts = 10

// newCode derives a human-presentable code from the leading characters of a
// random UUID, uppercased. Lengths up to 8 stay within the first hex group,
// so the result never contains a hyphen.
func newCode(length int) string {
	return strings.ToUpper(uuid.NewString()[:length])
}
