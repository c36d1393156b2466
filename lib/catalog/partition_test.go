package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsGraduate(t *testing.T) {
	testCases := []struct {
		code     string
		expected bool
	}{
		{"01CF101", true},
		{"0XX101", true},
		{"0", true},
		{"GB10234", false},
		{"CS101", false},
		{"10A0001", false},
		{" 0AB", false},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, IsGraduate(test.code), test.code)
	}
}

func TestPartition(t *testing.T) {
	records := []Record{
		{Code: "GB10234"},
		{Code: "01CF101"},
		{Code: "0XX101"},
		{Code: "FA01011"},
		{Code: "GB10234"},
	}

	p := Partition(records)
	require.Equal(t, records, p.All)
	require.Equal(t, []Record{{Code: "01CF101"}, {Code: "0XX101"}}, p.Graduate)
	require.Equal(t, []Record{{Code: "GB10234"}, {Code: "FA01011"}, {Code: "GB10234"}}, p.Undergraduate)
	require.Equal(t, len(p.All), len(p.Graduate)+len(p.Undergraduate))

	for _, r := range p.Graduate {
		require.True(t, r.IsGraduate())
	}
	for _, r := range p.Undergraduate {
		require.False(t, r.IsGraduate())
	}
}

func TestPartitionEmpty(t *testing.T) {
	p := Partition(nil)
	require.NotNil(t, p.All)
	require.Empty(t, p.All)
	require.Empty(t, p.Graduate)
	require.Empty(t, p.Undergraduate)
}
