package insights

// SongInsight is a per-song statistic used to rank candidate picks.
type SongInsight struct {
	Song             string `yaml:"song" json:"song"`
	Probability      int    `yaml:"probability" json:"probability"`
	TimesPlayed      int    `yaml:"times_played" json:"timesPlayed"`
	LastPlayed       string `yaml:"last_played,omitempty" json:"lastPlayed"`
	IsFrequentOpener bool   `yaml:"frequent_opener,omitempty" json:"isFrequentOpener"`
	IsFrequentCloser bool   `yaml:"frequent_closer,omitempty" json:"isFrequentCloser"`
}

// CatalogRecord is one song of the lifetime catalog.
type CatalogRecord struct {
	Song               string
	TimesPlayedAllTime int
	// LastPlayedOrDebut is the last-played date, or the debut date for songs
	// with no recorded last play.
	LastPlayedOrDebut string
}

// Thresholds decide when a song counts as a frequent opener or closer. Short
// windows want lower values than long ones.
type Thresholds struct {
	Opener int `yaml:"opener"`
	Closer int `yaml:"closer"`
}

// Report is the yaml document printed and emailed for a window of shows.
type Report struct {
	Metadata        ReportMetadata `yaml:"metadata"`
	TopSongs        []SongInsight  `yaml:"top_songs"`
	FrequentOpeners []SongInsight  `yaml:"frequent_openers"`
	FrequentClosers []SongInsight  `yaml:"frequent_closers"`
}

type ReportMetadata struct {
	GeneratedDate string     `yaml:"generated_date"`
	Mode          string     `yaml:"mode"`
	Period        string     `yaml:"period,omitempty"`
	ShowCount     int        `yaml:"show_count,omitempty"`
	SongCount     int        `yaml:"song_count"`
	Thresholds    Thresholds `yaml:"thresholds,omitempty"`
}
