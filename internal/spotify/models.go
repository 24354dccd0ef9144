package spotify

// Web API payloads, reduced to the fields the daemon reads.

type imageObject struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type artistObject struct {
	Name string `json:"name"`
}

type albumObject struct {
	Name   string        `json:"name"`
	Images []imageObject `json:"images"`
}

type showObject struct {
	Name string `json:"name"`
}

// item is either a track or an episode, depending on currently_playing_type
type item struct {
	Name    string         `json:"name"`
	Artists []artistObject `json:"artists"`
	Album   *albumObject   `json:"album"`
	Images  []imageObject  `json:"images"`
	Show    *showObject    `json:"show"`
}

// CurrentlyPlaying is the body of GET /v1/me/player/currently-playing
type CurrentlyPlaying struct {
	IsPlaying            bool   `json:"is_playing"`
	CurrentlyPlayingType string `json:"currently_playing_type"`
	Item                 *item  `json:"item"`
}

type playlistObject struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type playlistPage struct {
	Items []playlistObject `json:"items"`
	Next  string           `json:"next"`
}

type playRequest struct {
	ContextURI string `json:"context_uri,omitempty"`
}

type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
