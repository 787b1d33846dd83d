package jikan

// ============================================
// API RESPONSE STRUCTURES
// ============================================

// mangaEnvelope wraps a single-record response. Jikan omits "data" entirely
// when it has no record, which decodes to a nil Data pointer.
type mangaEnvelope struct {
	Data *mangaData `json:"data"`
}

// listEnvelope wraps paginated list responses from /manga and /top/manga.
type listEnvelope struct {
	Data []mangaData `json:"data"`
}

// mangaData is a single manga entry from the API.
type mangaData struct {
	MalID     int64      `json:"mal_id"`
	Title     string     `json:"title"`
	Synopsis  *string    `json:"synopsis"`
	Score     *float64   `json:"score"`
	Status    *string    `json:"status"`
	Volumes   *int       `json:"volumes"`
	Images    imageSet   `json:"images"`
	Authors   []authorRef `json:"authors"`
	Published published  `json:"published"`
}

type imageSet struct {
	JPG imageURLs `json:"jpg"`
}

type imageURLs struct {
	LargeImageURL *string `json:"large_image_url"`
}

type authorRef struct {
	Name string `json:"name"`
}

// published carries the publication range; From/To are ISO timestamps,
// String is the human-readable form ("Jul 22, 1997 to Apr 24, 2006").
type published struct {
	From   *string `json:"from"`
	To     *string `json:"to"`
	String *string `json:"string"`
}

// volumeCount normalizes the reported volume total: absent or nonsensical
// counts collapse to 1 so every manga has at least one sellable volume.
func (m *mangaData) volumeCount() int {
	if m.Volumes == nil || *m.Volumes < 1 {
		return 1
	}
	return *m.Volumes
}

func (m *mangaData) coverURL() *string {
	return m.Images.JPG.LargeImageURL
}

// ============================================
// CALLER-FACING SUMMARIES
// ============================================

// VolumeSummary is the volume-shaped record the catalog surface exposes.
// Search results synthesize one per volume; the popular feed reshapes every
// manga into a single summary for its last volume, carrying the manga-level
// synopsis/score/status along.
type VolumeSummary struct {
	MalID      int64    `json:"mal_id"`
	MangaTitle string   `json:"manga_title,omitempty"`
	Number     int      `json:"number"`
	Title      string   `json:"title"`
	CoverURL   *string  `json:"cover_url,omitempty"`
	ISBN       string   `json:"isbn"`
	PageCount  int      `json:"page_count"`
	Price      float64  `json:"price"`
	Synopsis   *string  `json:"synopsis,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Status     *string  `json:"status,omitempty"`
}

// MangaSummary is a keyword-search hit enriched with stand-in volume records.
type MangaSummary struct {
	MalID       int64           `json:"mal_id"`
	Title       string          `json:"title"`
	Synopsis    *string         `json:"synopsis,omitempty"`
	Score       *float64        `json:"score,omitempty"`
	Status      *string         `json:"status,omitempty"`
	CoverURL    *string         `json:"cover_url,omitempty"`
	VolumeCount int             `json:"volume_count"`
	VolumesList []VolumeSummary `json:"volumes_list"`
}
