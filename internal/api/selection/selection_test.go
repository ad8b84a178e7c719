package selection

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		total     int
		want      []int
		cancelled bool
		err       string
	}{
		{name: "all", input: "all", total: 5, want: []int{1, 2, 3, 4, 5}},
		{name: "all label", input: "✅ All", total: 2, want: []int{1, 2}},
		{name: "all padded", input: "  ALL ", total: 1, want: []int{1}},
		{name: "cancel", input: "Cancel", total: 3, cancelled: true},
		{name: "cancel label", input: "❌ Cancel", total: 3, cancelled: true},
		{name: "dedupe and sort", input: "3, 1 3", total: 3, want: []int{1, 3}},
		{name: "mixed separators", input: "2 and 4;1", total: 4, want: []int{1, 2, 4}},
		{name: "out of range is all or nothing", input: "1, 7", total: 5, err: "Please choose numbers between 1-5."},
		{name: "zero", input: "0", total: 5, err: "Please choose numbers between 1-5."},
		{name: "huge number", input: "99999999999999999999999", total: 5, err: "Please choose numbers between 1-5."},
		{name: "no numbers", input: "the first one", total: 5, err: MsgNoNumbers},
		{name: "empty", input: "   ", total: 5, err: MsgEmptyInput},
		{name: "nothing to pick", input: "1", total: 0, err: MsgNothingToPick},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input, tt.total)
			assert.Equal(t, tt.want, got.SelectedNumbers)
			assert.Equal(t, tt.cancelled, got.Cancelled)
			assert.Equal(t, tt.err, got.Error)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{"3, 1, 3", "all", "cancel", "2 2 2", "5,4,3,2,1", "x", "1, 9"}
	for _, in := range inputs {
		assert.Equal(t, Parse(in, 5), Parse(in, 5), in)
	}
}

func TestParse_Totality(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	alphabet := []rune("0123456789 ,;-abcALLcancel✅❌")
	for i := 0; i < 500; i++ {
		n := r.Intn(12)
		buf := make([]rune, n)
		for j := range buf {
			buf[j] = alphabet[r.Intn(len(alphabet))]
		}
		total := r.Intn(8)

		got := Parse(string(buf), total)
		outcomes := 0
		if len(got.SelectedNumbers) > 0 {
			outcomes++
			for k, v := range got.SelectedNumbers {
				require.GreaterOrEqual(t, v, 1)
				require.LessOrEqual(t, v, total)
				if k > 0 {
					require.Greater(t, v, got.SelectedNumbers[k-1])
				}
			}
		}
		if got.Cancelled {
			outcomes++
		}
		if got.Error != "" {
			outcomes++
		}
		require.Equal(t, 1, outcomes, "input %q total %d", string(buf), total)
	}
}
