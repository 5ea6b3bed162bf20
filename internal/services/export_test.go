package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsReport_WriteCSV(t *testing.T) {
	hour, day := 9, "Sunday"
	report := &StatsReport{
		ShortCode:       "promo",
		OriginalURL:     "https://example.com/a,b",
		CreatedAt:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Period:          Period7d,
		TotalClicks:     5,
		PeriodClicks:    4,
		Last7DaysClicks: 4,
		ClicksByDay:     []DayCount{{"2024-03-10", 4}},
		Countries:       []Count{{"DE", 2}, {"US", 2}},
		Devices:         []Count{{DeviceMobile, 4}},
		PeakHour:        &hour,
		PeakDay:         &day,
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"section", "name", "value"}, records[0])
	assert.Contains(t, records, []string{"summary", "originalUrl", "https://example.com/a,b"})
	assert.Contains(t, records, []string{"summary", "createdAt", "2024-03-01T00:00:00Z"})
	assert.Contains(t, records, []string{"summary", "last7DaysClicks", "4"})
	assert.Contains(t, records, []string{"summary", "peakHour", "9"})
	assert.Contains(t, records, []string{"summary", "peakDay", "Sunday"})
	assert.Contains(t, records, []string{"day", "2024-03-10", "4"})
	assert.Contains(t, records, []string{"country", "US", "2"})
	assert.Contains(t, records, []string{"device", "mobile", "4"})
}

func TestStatsReport_WriteCSVWithoutClicks(t *testing.T) {
	report := &StatsReport{ShortCode: "quiet", Period: PeriodAll}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	for _, r := range records {
		assert.NotEqual(t, "peakHour", r[1])
	}
	assert.Contains(t, records, []string{"summary", "totalClicks", "0"})
}
