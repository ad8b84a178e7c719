package selection

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	MsgEmptyInput    = "Please make a selection or type 'cancel'."
	MsgNoNumbers     = "Please enter numbers like '1, 3' or 'all'."
	MsgNothingToPick = "There are no items to choose from."
)

var numberPattern = regexp.MustCompile(`\d+`)

// Parse interprets a bucket-list selection reply against a list of total items.
// It is total: every input yields selected numbers, a cancellation or an error
// message. Any out-of-range number rejects the whole selection.
func Parse(input string, total int) types.BucketListSelection {
	if total < 1 {
		return types.BucketListSelection{Error: MsgNothingToPick}
	}
	clean := strings.ToLower(strings.TrimSpace(input))
	if clean == "" {
		return types.BucketListSelection{Error: MsgEmptyInput}
	}

	switch clean {
	case "all", "✅ all":
		return types.BucketListSelection{SelectedNumbers: lo.RangeFrom(1, total)}
	case "cancel", "❌ cancel":
		return types.BucketListSelection{Cancelled: true}
	}

	tokens := numberPattern.FindAllString(clean, -1)
	if len(tokens) == 0 {
		return types.BucketListSelection{Error: MsgNoNumbers}
	}

	numbers := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > total {
			return types.BucketListSelection{Error: OutOfRange(total)}
		}
		numbers = append(numbers, n)
	}

	numbers = lo.Uniq(numbers)
	sort.Ints(numbers)
	return types.BucketListSelection{SelectedNumbers: numbers}
}

// OutOfRange is the error shown when a number falls outside 1..total.
func OutOfRange(total int) string {
	return fmt.Sprintf("Please choose numbers between 1-%d.", total)
}
