package music

// TrackMetadata holds the metadata extracted for a single audio file.
// Every field is optional; unknown values stay at their zero value.
type TrackMetadata struct {
	Title    string
	Artist   string
	Album    string
	Year     int
	Genre    string
	Duration int // seconds
	Bitrate  int // kbps
}

// Candidate is a single track returned by a remote track-search capability.
type Candidate struct {
	Title       string
	Artist      string
	ReleaseDate string // "2019", "2019-04", or "2019-04-26"
}
