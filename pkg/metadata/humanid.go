package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Human-readable material codes: 6 base36 characters, uppercase,
// zero-padded, assigned sequentially ("000000", "000001", ... "00000A").
const HumanIDLength = 6

var humanIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// maxHumanID is 36^6 - 1, the last representable code.
const maxHumanID = uint64(36*36*36*36*36*36 - 1)

func IsHumanID(value string) bool {
	return humanIDPattern.MatchString(value)
}

// DecodeHumanID returns the numeric value of a code, case-insensitive.
func DecodeHumanID(value string) (uint64, error) {
	if !IsHumanID(value) {
		return 0, fmt.Errorf("invalid human id: %q", value)
	}
	n, err := strconv.ParseUint(strings.ToLower(value), 36, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid human id: %q", value)
	}
	return n, nil
}

func FormatHumanID(n uint64) string {
	s := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(s) < HumanIDLength {
		s = strings.Repeat("0", HumanIDLength-len(s)) + s
	}
	return s
}

// NextHumanID returns the code following last, or the first code when last is
// empty. The caller is responsible for reading the current maximum; the
// read-increment-write sequence is not atomic across concurrent writers.
func NextHumanID(last string) (string, error) {
	if last == "" {
		return FormatHumanID(0), nil
	}

	n, err := DecodeHumanID(last)
	if err != nil {
		return "", err
	}
	if n >= maxHumanID {
		return "", fmt.Errorf("human id space exhausted at %s", last)
	}

	return FormatHumanID(n + 1), nil
}
