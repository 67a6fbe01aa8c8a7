package insights

import "time"

// NewReport builds the yaml report for a ranked list of insights. Only the top
// n songs are listed (all of them for n <= 0); frequent openers and closers
// are taken from the whole list.
func NewReport(mode, period string, shows int, th Thresholds, ranked []SongInsight, n int, now time.Time) *Report {
	report := &Report{
		Metadata: ReportMetadata{
			GeneratedDate: now.Format("2006-01-02"),
			Mode:          mode,
			Period:        period,
			ShowCount:     shows,
			SongCount:     len(ranked),
			Thresholds:    th,
		},
		TopSongs:        Top(ranked, n),
		FrequentOpeners: []SongInsight{},
		FrequentClosers: []SongInsight{},
	}

	for _, i := range ranked {
		if i.IsFrequentOpener {
			report.FrequentOpeners = append(report.FrequentOpeners, i)
		}
		if i.IsFrequentCloser {
			report.FrequentClosers = append(report.FrequentClosers, i)
		}
	}
	report.FrequentOpeners = Top(report.FrequentOpeners, n)
	report.FrequentClosers = Top(report.FrequentClosers, n)

	return report
}
