package publish

import "github.com/goliatone/go-devlog/internal/schemaorg"

// PackageKind and PackageVersion identify the publish package format.
const (
	PackageKind    = "PublishPackage"
	PackageVersion = 1
)

// Package is the canonical publish artifact built from one daily digest.
// Its top-level key set is fixed; consumers rely on every key being present
// even when a section is empty.
type Package struct {
	Meta          Meta                  `json:"_meta"`
	URL           string                `json:"url"`
	DatePublished string                `json:"datePublished"`
	DateModified  string                `json:"dateModified"`
	WordCount     int                   `json:"wordCount"`
	TimeRequired  string                `json:"timeRequired"`
	Content       Content               `json:"content"`
	Media         Media                 `json:"media"`
	Stories       []Story               `json:"stories"`
	Related       []RelatedPost         `json:"related"`
	Schema        schemaorg.BlogPosting `json:"schema"`
	Headers       Headers               `json:"headers"`
}

// Meta carries format identification and build provenance. The id is
// derived from the canonical URL, so rebuilding the same post yields the
// same id while generated_at moves.
type Meta struct {
	Kind        string `json:"kind"`
	Version     int    `json:"version"`
	ID          string `json:"id"`
	GeneratedAt string `json:"generated_at"`
}

// Content is the editorial payload after anchor resolution.
type Content struct {
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Body    string   `json:"body"`
	HTML    string   `json:"html"`
	Tags    []string `json:"tags"`
}

// Media groups the hero image with the rendered story videos.
type Media struct {
	Hero   Hero    `json:"hero"`
	Videos []Video `json:"videos"`
}

// Hero is the lead image for the post.
type Hero struct {
	Image string `json:"image"`
	Alt   string `json:"alt,omitempty"`
}

// Video is one rendered story packet video.
type Video struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Thumbnail  string  `json:"thumbnail"`
	Duration   float64 `json:"duration,omitempty"`
	UploadDate string  `json:"uploadDate,omitempty"`
}

// Story is the narrative view of one story packet. VideoID points into
// media.videos and is null when the packet's video never rendered.
type Story struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Why        string   `json:"why,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
	VideoID    *string  `json:"videoId"`
	MergedAt   string   `json:"mergedAt,omitempty"`
}

// RelatedPost is a pointer to earlier published work.
type RelatedPost struct {
	Title string  `json:"title"`
	URL   string  `json:"url"`
	Image string  `json:"image,omitempty"`
	Score float64 `json:"score"`
}

// Headers are the fixed serving headers emitted alongside the package.
type Headers struct {
	XRobotsTag   string `json:"X-Robots-Tag"`
	CacheControl string `json:"Cache-Control"`
	ETag         string `json:"ETag"`
}
