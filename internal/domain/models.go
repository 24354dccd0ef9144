package domain

// Kind classifies what the player is currently playing
type Kind string

const (
	// KindNone means nothing meaningful is playing (stopped, ad, unknown item type)
	KindNone Kind = "none"
	// KindTrack is a music track
	KindTrack Kind = "track"
	// KindEpisode is a podcast episode
	KindEpisode Kind = "episode"
)

// Snapshot is a point-in-time description of what is currently playing
type Snapshot struct {
	// Kind of the playing item, KindNone when nothing is playing
	Kind Kind
	// Title of the track or episode
	Title string
	// Artist holds the joined artist names, or the show name for episodes
	Artist string
	// CoverURL points to the album or episode artwork
	CoverURL string
}

// Nothing is the snapshot reported when nothing is playing.
var Nothing = Snapshot{Kind: KindNone}

// Playing reports whether the snapshot describes something worth rendering
func (s Snapshot) Playing() bool {
	return s.Kind == KindTrack || s.Kind == KindEpisode
}

// Identity returns the value used to detect a meaningful playback change
func (s Snapshot) Identity() Identity {
	if !s.Playing() {
		return NoSong
	}
	return Identity{playing: true, title: s.Title, cover: s.CoverURL}
}

// Identity describes what is currently on screen. The zero value is NoSong.
type Identity struct {
	playing bool
	title   string
	cover   string
}

// NoSong is the identity of the idle screen.
var NoSong = Identity{}

// String renders the identity for logs
func (i Identity) String() string {
	if i == NoSong {
		return "NO_SONG"
	}
	return i.title + " | " + i.cover
}

// Action is a playback command bound to a physical button
type Action int

const (
	ActionNext Action = iota
	ActionPrevious
	ActionTogglePlayback
	ActionNextPlaylist
)

func (a Action) String() string {
	switch a {
	case ActionNext:
		return "next"
	case ActionPrevious:
		return "previous"
	case ActionTogglePlayback:
		return "toggle"
	case ActionNextPlaylist:
		return "playlist"
	default:
		return "unknown"
	}
}

// Playlist is a playable context owned by the user
type Playlist struct {
	Name string
	URI  string
}

// PlaylistPage is one page of the user's playlists. Next is empty on the last page.
type PlaylistPage struct {
	Items []Playlist
	Next  string
}
