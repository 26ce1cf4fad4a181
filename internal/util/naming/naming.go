package naming

import (
	"fmt"
	"strings"

	"k8s.io/apimachinery/pkg/util/rand"
)

// ShortIDLength is the length of the random stack name suffix.
const ShortIDLength = 8

// ShortID returns ShortIDLength random lowercase alphanumerics.
func ShortID() string {
	return rand.String(ShortIDLength)
}

// Stack returns the Heat stack name for a bay.
func Stack(bayName, shortID string) string {
	return fmt.Sprintf("%s-%s", bayName, shortID)
}

// NewStack returns a stack name with a fresh short id.
func NewStack(bayName string) string {
	return Stack(bayName, ShortID())
}

// BayFromStack strips the short id suffix from a stack name. It returns
// the input unchanged if it carries no suffix of the expected length.
func BayFromStack(stackName string) string {
	i := strings.LastIndexByte(stackName, '-')
	if i < 0 || len(stackName)-i-1 != ShortIDLength {
		return stackName
	}
	return stackName[:i]
}
