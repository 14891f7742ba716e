package suggest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		attempted string
		available []string
		want      []string
	}{
		{name: "exact case-insensitive", attempted: "NAME", available: []string{"size", "name"}, want: []string{"name"}},
		{name: "one typo", attempted: "nmae", available: []string{"name", "size"}, want: []string{"name"}},
		{name: "closest first", attempted: "sise", available: []string{"sizes", "size"}, want: []string{"size", "sizes"}},
		{name: "subsequence", attempted: "mdf", available: []string{"modified", "type"}, want: []string{"modified"}},
		{name: "single rune too far", attempted: "b", available: []string{"a"}, want: []string{}},
		{name: "nothing close", attempted: "xyz", available: []string{"name", "size"}, want: []string{}},
		{name: "empty attempted", attempted: "", available: []string{"a"}, want: nil},
		{name: "ties keep order", attempted: "ab", available: []string{"ax", "ay"}, want: []string{"ax", "ay"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Suggest(tt.attempted, tt.available)
			if tt.want == nil {
				require.Empty(t, got)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}
