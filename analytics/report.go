package analytics

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// ParsePeriod maps a period name to a day count. Unknown names fall back
// to "week".
func ParsePeriod(period string) (string, int) {
	switch period {
	case "today":
		return period, 1
	case "month":
		return period, 30
	case "year":
		return period, 365
	default:
		return "week", 7
	}
}

// TimeRange returns the [from, to) window covering the last days days,
// aligned to UTC midnight.
func TimeRange(now time.Time, days int) (time.Time, time.Time) {
	now = now.UTC()
	to := now.Add(24 * time.Hour).Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -days)
	return from, to
}

// WriteReport writes a plain-text summary of stats to w.
func WriteReport(w io.Writer, stats *Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Period\t%s\n", stats.Period)
	fmt.Fprintf(tw, "Views\t%d\n", stats.TotalViews)
	fmt.Fprintf(tw, "Unique visitors\t%d\n", stats.UniqueVisitors)
	fmt.Fprintf(tw, "Bot visits\t%d\n", stats.BotVisits)

	section := func(title string, rows []DimensionStat) {
		if len(rows) == 0 {
			return
		}
		fmt.Fprintf(tw, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%d\n", r.Name, r.Count)
		}
	}
	pages := make([]DimensionStat, len(stats.TopPages))
	for i, p := range stats.TopPages {
		pages[i] = DimensionStat{Name: p.Path, Count: p.Views}
	}
	section("Top pages", pages)
	section("Referrers", stats.ReferrerStats)
	section("Browsers", stats.BrowserStats)
	section("Operating systems", stats.OSStats)
	section("Devices", stats.DeviceStats)
	section("Bots", stats.TopBots)
	return tw.Flush()
}
