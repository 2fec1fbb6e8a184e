package commands

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"unicode"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task number required")

// ParseTaskRef parses a 1-based row number as printed by `todos list`.
func ParseTaskRef(arg string) (int, error) {
	if !isAllDigits(arg) {
		return 0, fmt.Errorf("invalid task number: %s", arg)
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid task number: %s", arg)
	}
	return n, nil
}

// ParseTaskRefs parses one or more row numbers.
// Duplicates are dropped; the result keeps first-seen order.
func ParseTaskRefs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}

	seen := make(map[int]bool, len(args))
	var refs []int
	for _, arg := range args {
		n, err := ParseTaskRef(arg)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		refs = append(refs, n)
	}
	return refs, nil
}

// descending returns refs sorted from the highest row down, so earlier
// removals do not shift later ones.
func descending(refs []int) []int {
	out := append([]int(nil), refs...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
