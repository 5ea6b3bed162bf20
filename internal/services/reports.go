package services

import (
	"sort"
	"time"

	"linkstat/internal/models"
)

const (
	recentClicksLimit   = 20
	recentActivityLimit = 20
	topURLsLimit        = 5
	topCountriesLimit   = 10
)

// Count is one row of a breakdown.
type Count struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int64  `json:"count"`
}

type StatsReport struct {
	ShortCode        string         `json:"shortCode"`
	OriginalURL      string         `json:"originalUrl"`
	CreatedAt        time.Time      `json:"createdAt"`
	Period           Period         `json:"period"`
	TotalClicks      int64          `json:"totalClicks"`
	PeriodClicks     int64          `json:"periodClicks"`
	TodayClicks      int64          `json:"todayClicks"`
	Last7DaysClicks  int64          `json:"last7DaysClicks"`
	UniqueVisitors   int64          `json:"uniqueVisitors"`
	UniqueCountries  int64          `json:"uniqueCountries"`
	ClicksByDay      []DayCount     `json:"clicksByDay"`
	Countries        []Count        `json:"countries"`
	Referers         []Count        `json:"referers"`
	Devices          []Count        `json:"devices"`
	Browsers         []Count        `json:"browsers"`
	OperatingSystems []Count        `json:"operatingSystems"`
	RecentClicks     []models.Click `json:"recentClicks"`

	// Busiest UTC hour (0-23) and weekday of the period; nil without clicks.
	PeakHour *int    `json:"peakHour"`
	PeakDay  *string `json:"peakDay"`
}

type TopURL struct {
	ShortCode   string    `json:"shortCode"`
	OriginalURL string    `json:"originalUrl"`
	ClickCount  int64     `json:"clickCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OverviewReport struct {
	TotalURLs           int64    `json:"totalUrls"`
	TotalClicks         int64    `json:"totalClicks"`
	AverageClicksPerURL int64    `json:"averageClicksPerUrl"`
	ActiveURLs          int64    `json:"activeUrls"`
	TopURLs             []TopURL `json:"topUrls"`
	UniqueVisitors      int64    `json:"uniqueVisitors"`
	ClicksLast24h       int64    `json:"clicksLast24h"`
	TopCountries        []Count  `json:"topCountries"`
	TopDevices          []Count  `json:"topDevices"`

	RecentActivity []ActivityClick `json:"recentActivity"`
}

// ActivityClick is a click tagged with the code it was made on.
type ActivityClick struct {
	ShortCode string `json:"shortCode"`
	models.Click
}

// tally counts values; breakdown turns it into rows sorted by count desc,
// then name asc, truncated to limit when limit > 0.
type tally map[string]int64

func (t tally) add(name string) { t[name]++ }

func (t tally) breakdown(limit int) []Count {
	rows := make([]Count, 0, len(t))
	for name, n := range t {
		rows = append(rows, Count{Name: name, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (t tally) days() []DayCount {
	out := make([]DayCount, 0, len(t))
	for date, n := range t {
		out = append(out, DayCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// roundedAverage divides two non-negative counts, rounding halves up.
// Zero when d is zero.
func roundedAverage(n, d int64) int64 {
	if d == 0 {
		return 0
	}
	return (2*n + d) / (2 * d)
}

// peak returns the most frequent key of counts, the lowest key on ties.
func peak(counts map[int]int64) (int, bool) {
	best, found := 0, false
	for k, n := range counts {
		if !found || n > counts[best] || (n == counts[best] && k < best) {
			best, found = k, true
		}
	}
	return best, found
}

// buildStats expects clicks newest first, reaching back at least to since
// (all of them when since is zero) and to seven days before now.
func buildStats(url *models.URL, period Period, since time.Time, clicks []models.Click, now time.Time) *StatsReport {
	now = now.UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := Period7d.Since(now)

	visitors := make(map[string]struct{})
	knownCountries := make(map[string]struct{})
	byDay, countries, referers, devices, browsers, systems := tally{}, tally{}, tally{}, tally{}, tally{}, tally{}
	hours, weekdays := map[int]int64{}, map[int]int64{}

	var today, lastWeek int64
	inPeriod := make([]models.Click, 0, len(clicks))
	for _, c := range clicks {
		ts := c.Timestamp.UTC()
		if !ts.Before(weekAgo) {
			lastWeek++
		}
		if ts.Before(since) {
			continue
		}
		inPeriod = append(inPeriod, c)

		if !ts.Before(startOfDay) {
			today++
		}
		if c.IPAddress != unknownValue {
			visitors[c.IPAddress] = struct{}{}
		}
		if c.Country != unknownValue {
			knownCountries[c.Country] = struct{}{}
		}
		hours[ts.Hour()]++
		weekdays[int(ts.Weekday())]++
		byDay.add(ts.Format(time.DateOnly))
		countries.add(c.Country)
		referers.add(c.Referer)
		devices.add(c.DeviceType)
		browsers.add(c.Browser)
		systems.add(c.OS)
	}

	recent := inPeriod
	if len(recent) > recentClicksLimit {
		recent = recent[:recentClicksLimit]
	}

	report := &StatsReport{
		ShortCode:        url.ShortCode,
		OriginalURL:      url.OriginalURL,
		CreatedAt:        url.CreatedAt,
		Period:           period,
		TotalClicks:      url.ClickCount,
		PeriodClicks:     int64(len(inPeriod)),
		TodayClicks:      today,
		Last7DaysClicks:  lastWeek,
		UniqueVisitors:   int64(len(visitors)),
		UniqueCountries:  int64(len(knownCountries)),
		ClicksByDay:      byDay.days(),
		Countries:        countries.breakdown(0),
		Referers:         referers.breakdown(0),
		Devices:          devices.breakdown(0),
		Browsers:         browsers.breakdown(0),
		OperatingSystems: systems.breakdown(0),
		RecentClicks:     append([]models.Click{}, recent...),
	}
	if h, ok := peak(hours); ok {
		report.PeakHour = &h
	}
	if d, ok := peak(weekdays); ok {
		day := time.Weekday(d).String()
		report.PeakDay = &day
	}
	return report
}

// buildOverview expects allClicks to cover every URL and lastDay the clicks of
// the past 24 hours, both newest first.
func buildOverview(urls []models.URL, allClicks, lastDay []models.Click) *OverviewReport {
	report := &OverviewReport{
		TotalURLs:     int64(len(urls)),
		ClicksLast24h: int64(len(lastDay)),
		TopURLs:       []TopURL{},
	}

	for _, u := range urls {
		report.TotalClicks += u.ClickCount
		if u.ClickCount > 0 {
			report.ActiveURLs++
		}
	}
	report.AverageClicksPerURL = roundedAverage(report.TotalClicks, report.TotalURLs)

	ranked := append([]models.URL{}, urls...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ClickCount != ranked[j].ClickCount {
			return ranked[i].ClickCount > ranked[j].ClickCount
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})
	if len(ranked) > topURLsLimit {
		ranked = ranked[:topURLsLimit]
	}
	for _, u := range ranked {
		report.TopURLs = append(report.TopURLs, TopURL{
			ShortCode:   u.ShortCode,
			OriginalURL: u.OriginalURL,
			ClickCount:  u.ClickCount,
			CreatedAt:   u.CreatedAt,
		})
	}

	visitors := make(map[string]struct{})
	for _, c := range allClicks {
		if c.IPAddress != unknownValue {
			visitors[c.IPAddress] = struct{}{}
		}
	}
	report.UniqueVisitors = int64(len(visitors))

	countries := tally{}
	for _, c := range lastDay {
		countries.add(c.Country)
	}
	report.TopCountries = countries.breakdown(topCountriesLimit)

	codes := make(map[string]string, len(urls))
	for _, u := range urls {
		codes[u.ID] = u.ShortCode
	}
	devices := tally{}
	report.RecentActivity = []ActivityClick{}
	for _, c := range lastDay {
		devices.add(c.DeviceType)
		code, ok := codes[c.URLID]
		if ok && len(report.RecentActivity) < recentActivityLimit {
			report.RecentActivity = append(report.RecentActivity, ActivityClick{ShortCode: code, Click: c})
		}
	}
	report.TopDevices = devices.breakdown(0)

	return report
}
