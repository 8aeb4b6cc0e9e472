package datafeed

import (
	"testing"
	"time"

	v1 "github.com/muhammadchandra19/chart-datafeed/internal/domain/datafeed/v1"
	"github.com/stretchr/testify/assert"
)

func TestResolveRange(t *testing.T) {
	now := time.Unix(1700000000, 0)

	testCases := []struct {
		name         string
		resolution   string
		from, to     int64
		firstRequest bool
		expected     v1.Range
	}{
		{
			name:       "intraday paging is verbatim",
			resolution: "60",
			from:       1690000000,
			to:         1695000000,
			expected:   v1.Range{From: 1690000000, To: 1695000000},
		},
		{
			name:         "first request claims full history",
			resolution:   "5",
			from:         1690000000,
			to:           1695000000,
			firstRequest: true,
			expected:     v1.Range{From: DefaultHistoryEpoch, To: 1700000000},
		},
		{
			name:       "daily always claims full history",
			resolution: "D",
			from:       1690000000,
			to:         1695000000,
			expected:   v1.Range{From: DefaultHistoryEpoch, To: 1700000000},
		},
		{
			name:       "legacy weekly code is long term",
			resolution: "1W",
			from:       1690000000,
			to:         1695000000,
			expected:   v1.Range{From: DefaultHistoryEpoch, To: 1700000000},
		},
		{
			name:       "monthly keeps earlier from and later to",
			resolution: "M",
			from:       1000000000,
			to:         1800000000,
			expected:   v1.Range{From: 1000000000, To: 1800000000},
		},
		{
			name:       "unknown resolution behaves like 1h",
			resolution: "XYZ",
			from:       1690000000,
			to:         1695000000,
			expected:   v1.Range{From: 1690000000, To: 1695000000},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveRange(tc.resolution, tc.from, tc.to, tc.firstRequest, now, DefaultHistoryEpoch)
			assert.Equal(t, tc.expected, got)
		})
	}
}
