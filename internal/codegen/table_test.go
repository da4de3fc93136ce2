package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(frags []Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Text
	}
	return out
}

func TestTableOrdersByPriority(t *testing.T) {
	tbl := NewTable()
	tbl.Add("P", "c", 30)
	tbl.Add("P", "a", 10)
	tbl.Add("P", "b", 20)

	frags, ok := tbl.Get("P")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, texts(frags))
}

func TestTableStableOnEqualPriority(t *testing.T) {
	tbl := NewTable()
	tbl.AddDefault("P", "zeta")
	tbl.AddDefault("P", "alpha")
	tbl.Add("P", "first", 1)
	tbl.AddDefault("P", "mid")

	frags, ok := tbl.Get("P")
	require.True(t, ok)
	assert.Equal(t, []string{"first", "zeta", "alpha", "mid"}, texts(frags))
}

func TestTableSuppressesExactDuplicates(t *testing.T) {
	tbl := NewTable()
	tbl.Add("P", "x", 5)
	tbl.Add("P", "y", 7)
	tbl.Add("P", "x", 5)
	// Same text at another priority is a different fragment.
	tbl.Add("P", "x", 9)

	frags, _ := tbl.Get("P")
	assert.Equal(t, []Fragment{
		{Text: "x", Priority: 5},
		{Text: "y", Priority: 7},
		{Text: "x", Priority: 9},
	}, frags)
	assert.Equal(t, 3, tbl.Len())
}

func TestTableGetAbsent(t *testing.T) {
	tbl := NewTable()
	frags, ok := tbl.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, frags)
}

func TestTableGetReturnsCopy(t *testing.T) {
	tbl := NewTable()
	tbl.AddDefault("P", "a")

	frags, _ := tbl.Get("P")
	frags[0].Text = "mutated"

	again, _ := tbl.Get("P")
	assert.Equal(t, "a", again[0].Text)
}

func TestTablePoints(t *testing.T) {
	tbl := NewTable()
	tbl.AddDefault("Base-Setup", "a")
	tbl.AddDefault("Base-Globals", "b")
	tbl.AddDefault("Base-Setup", "c")

	assert.Equal(t, []string{"Base-Globals", "Base-Setup"}, tbl.Points())
}

func TestTableEmissionOrder(t *testing.T) {
	type add struct {
		text     string
		priority int
	}
	tests := []struct {
		name string
		adds []add
		want []Fragment
	}{
		{
			name: "negative priorities first",
			adds: []add{{"b", 0}, {"a", -5}, {"c", DefaultPriority}},
			want: []Fragment{{"a", -5}, {"b", 0}, {"c", DefaultPriority}},
		},
		{
			name: "ties keep insertion order around a lower entry",
			adds: []add{{"t1", 2}, {"low", 1}, {"t2", 2}, {"t3", 2}},
			want: []Fragment{{"low", 1}, {"t1", 2}, {"t2", 2}, {"t3", 2}},
		},
		{
			name: "duplicate after interleaving is dropped",
			adds: []add{{"x", 1}, {"y", 2}, {"x", 1}, {"z", 1}},
			want: []Fragment{{"x", 1}, {"z", 1}, {"y", 2}},
		},
		{
			name: "empty text is a fragment",
			adds: []add{{"", 3}, {"", 3}},
			want: []Fragment{{"", 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable()
			for _, a := range tt.adds {
				tbl.Add("P", a.text, a.priority)
			}
			got, _ := tbl.Get("P")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fragments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
