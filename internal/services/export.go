package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes the report as section,name,value rows: the summary
// figures first, then each breakdown and the daily series.
func (s *StatsReport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"section", "name", "value"},
		{"summary", "shortCode", s.ShortCode},
		{"summary", "originalUrl", s.OriginalURL},
		{"summary", "createdAt", s.CreatedAt.UTC().Format(time.RFC3339)},
		{"summary", "period", string(s.Period)},
		{"summary", "totalClicks", strconv.FormatInt(s.TotalClicks, 10)},
		{"summary", "periodClicks", strconv.FormatInt(s.PeriodClicks, 10)},
		{"summary", "todayClicks", strconv.FormatInt(s.TodayClicks, 10)},
		{"summary", "last7DaysClicks", strconv.FormatInt(s.Last7DaysClicks, 10)},
		{"summary", "uniqueVisitors", strconv.FormatInt(s.UniqueVisitors, 10)},
		{"summary", "uniqueCountries", strconv.FormatInt(s.UniqueCountries, 10)},
	}
	if s.PeakHour != nil {
		rows = append(rows, []string{"summary", "peakHour", strconv.Itoa(*s.PeakHour)})
	}
	if s.PeakDay != nil {
		rows = append(rows, []string{"summary", "peakDay", *s.PeakDay})
	}
	for _, d := range s.ClicksByDay {
		rows = append(rows, []string{"day", d.Date, strconv.FormatInt(d.Count, 10)})
	}

	sections := []struct {
		name string
		rows []Count
	}{
		{"country", s.Countries},
		{"referer", s.Referers},
		{"device", s.Devices},
		{"browser", s.Browsers},
		{"os", s.OperatingSystems},
	}
	for _, sec := range sections {
		for _, c := range sec.rows {
			rows = append(rows, []string{sec.name, c.Name, strconv.FormatInt(c.Count, 10)})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
