package domain

// EpisodeRef is the boundary contract with the episode catalog: the engine
// only needs an episode's identity, series, and duration ceiling. Catalog
// management (CRUD, files, search) lives outside this server.
type EpisodeRef struct {
	ID              string `json:"id"`
	SeriesID        string `json:"series_id"`
	Title           string `json:"title,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
}
