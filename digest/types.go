package digest

import "encoding/json"

// Digest is the daily development record assembled upstream: merged story
// packets, raw GitHub events, Twitch clips, and optional editorial content in
// one of several historical shapes.
type Digest struct {
	Date         string        `json:"date"`
	StoryPackets []StoryPacket `json:"story_packets,omitempty"`
	GitHubEvents []GitHubEvent `json:"github_events,omitempty"`
	TwitchClips  []TwitchClip  `json:"twitch_clips,omitempty"`
	RelatedPosts []RelatedPost `json:"related_posts,omitempty"`

	// Editorial metadata, top-level shape.
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Editorial metadata, frontmatter shape.
	Frontmatter *Frontmatter `json:"frontmatter,omitempty"`

	// Body, in whichever shape the producing pipeline emitted. Content is
	// either a plain string or an object carrying a body field, so it stays
	// raw until extraction.
	Content      json.RawMessage `json:"content,omitempty"`
	MarkdownBody string          `json:"markdown_body,omitempty"`
	ArticleBody  string          `json:"articleBody,omitempty"`
}

// Frontmatter carries editorial metadata for digests produced from markdown
// documents with a YAML header.
type Frontmatter struct {
	Title       string   `json:"title,omitempty" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Lead        string   `json:"lead,omitempty" yaml:"lead"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	Date        string   `json:"date,omitempty" yaml:"date"`
	Author      string   `json:"author,omitempty" yaml:"author"`
}

// StoryPacket is one merged pull request enriched with narrative fields and
// an optional rendered video.
type StoryPacket struct {
	ID         string   `json:"id"`
	PRNumber   int      `json:"pr_number,omitempty"`
	TitleHuman string   `json:"title_human,omitempty"`
	Title      string   `json:"title,omitempty"`
	Why        string   `json:"why,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
	MergedAt   string   `json:"merged_at,omitempty"`
	Video      Video    `json:"video"`
}

// Video describes the rendering state of a story packet's clip.
type Video struct {
	Status   string  `json:"status,omitempty"`
	Path     string  `json:"path,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Rendered reports whether the packet's video finished rendering and has an
// addressable output file.
func (v Video) Rendered() bool {
	return v.Status == "rendered" && v.Path != ""
}

// DisplayTitle prefers the humanized packet title over the raw PR title.
func (s StoryPacket) DisplayTitle() string {
	if s.TitleHuman != "" {
		return s.TitleHuman
	}
	return s.Title
}

// GitHubEvent is a raw activity record captured from the GitHub events feed.
type GitHubEvent struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"`
	Repo      string       `json:"repo,omitempty"`
	Actor     string       `json:"actor,omitempty"`
	CreatedAt string       `json:"created_at,omitempty"`
	URL       string       `json:"url,omitempty"`
	Title     string       `json:"title,omitempty"`
	Body      string       `json:"body,omitempty"`
	Details   EventDetails `json:"details"`
}

// EventDetails holds the type-specific payload fields the resolver links to.
type EventDetails struct {
	Number         int      `json:"number,omitempty"`
	Action         string   `json:"action,omitempty"`
	Merged         bool     `json:"merged,omitempty"`
	CommitSHA      string   `json:"commit_sha,omitempty"`
	CommitMessages []string `json:"commit_messages,omitempty"`
}

// TwitchClip is a captured stream highlight.
type TwitchClip struct {
	ID              string  `json:"id"`
	Title           string  `json:"title,omitempty"`
	URL             string  `json:"url,omitempty"`
	BroadcasterName string  `json:"broadcaster_name,omitempty"`
	CreatedAt       string  `json:"created_at,omitempty"`
	Duration        float64 `json:"duration,omitempty"`
	ViewCount       int     `json:"view_count,omitempty"`
	Language        string  `json:"language,omitempty"`
	Transcript      string  `json:"transcript,omitempty"`
}

// RelatedPost points at an earlier published post surfaced as related
// reading. Score is an optional relevance weight assigned upstream.
type RelatedPost struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Image string   `json:"image,omitempty"`
	Score *float64 `json:"score,omitempty"`
}
