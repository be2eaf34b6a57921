package publish

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-devlog/digest"
	"github.com/goliatone/go-devlog/internal/anchors"
	"github.com/goliatone/go-devlog/internal/canonical"
	"github.com/goliatone/go-devlog/internal/identity"
	"github.com/goliatone/go-devlog/internal/logging"
	"github.com/goliatone/go-devlog/internal/markdown"
	"github.com/goliatone/go-devlog/internal/schemaorg"
	"github.com/goliatone/go-devlog/pkg/interfaces"
)

const (
	headerRobots       = "index, follow"
	headerCacheControl = "public, max-age=3600"

	// wordsPerMinute drives the timeRequired estimate; the floor is one
	// minute even for an empty body.
	wordsPerMinute = 200

	videoThumbSuffix = "_01_intro.png"

	defaultHeroImage = "https://images.unsplash.com/photo-1461749280684-dccba630e2f6?w=1200&h=630&fit=crop"

	defaultRelatedScore = 0.0
)

// Options carries the site-level settings a Serializer needs. SiteBaseURL
// is required; everything else has a sensible zero behaviour.
type Options struct {
	SiteBaseURL  string
	RepoBaseURL  string
	MediaBaseURL string
	EmbedDomains string

	AuthorName string
	SiteName   string
	LogoURL    string
	HeroImage  string

	Signature         string
	SignatureSentinel string
}

// Option mutates a Serializer during construction.
type Option func(*Serializer)

// WithLogger attaches a logger to the serializer.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Serializer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithParser overrides the markdown renderer used for content.html.
func WithParser(parser interfaces.MarkdownParser) Option {
	return func(s *Serializer) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithClock overrides the time source, which pins generated_at and
// dateModified in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Serializer) {
		if now != nil {
			s.now = now
		}
	}
}

// Serializer turns validated digests into publish packages. A single
// instance is safe for concurrent use; each Build works on its own digest
// and shares only immutable configuration.
type Serializer struct {
	opts   Options
	links  *canonical.Links
	parser interfaces.MarkdownParser
	logger interfaces.Logger
	now    func() time.Time
}

// New constructs a Serializer. The site base URL must be set; repo links
// and embeds degrade gracefully when their settings are absent.
func New(opts Options, mods ...Option) (*Serializer, error) {
	links, err := canonical.NewLinks(opts.SiteBaseURL, opts.RepoBaseURL)
	if err != nil {
		return nil, ErrMissingBaseURL
	}

	s := &Serializer{
		opts:   opts,
		links:  links,
		parser: markdown.NewGoldmarkParser(interfaces.ParseOptions{}),
		logger: logging.NoOp(),
		now:    time.Now,
	}
	if s.opts.HeroImage == "" {
		s.opts.HeroImage = defaultHeroImage
	}

	for _, mod := range mods {
		mod(s)
	}
	return s, nil
}

// Build assembles the publish package for one digest: extract content,
// resolve anchors, count words, derive the canonical URL, attach media,
// stories, related posts, structured data, and serving headers.
func (s *Serializer) Build(d *digest.Digest) (*Package, error) {
	if d == nil {
		return nil, ErrNilDigest
	}
	// A dateless digest still builds; the canonical URL degrades to the
	// blog root and datePublished stays empty. digest.Parse rejects
	// dateless input at the boundary.
	date := strings.TrimSpace(d.Date)

	content := d.ExtractContent()
	if content.Title == "" {
		content.Title = "Dev Log"
		if date != "" {
			content.Title = fmt.Sprintf("Dev Log: %s", date)
		}
	}

	resolveLogger := logging.WithDigestContext(s.logger, date, "digest", canonical.Slugify(content.Title))
	resolverOpts := []anchors.Option{
		anchors.WithLinks(s.links),
		anchors.WithEmbedDomains(s.opts.EmbedDomains),
		anchors.WithLogger(resolveLogger),
	}
	if s.opts.Signature != "" || s.opts.SignatureSentinel != "" {
		resolverOpts = append(resolverOpts, anchors.WithSignature(s.opts.Signature, s.opts.SignatureSentinel))
	}
	resolver := anchors.NewResolver(d, resolverOpts...)
	body := resolver.Resolve(content.Body)

	wordCount := markdown.WordCount(body)
	canonicalURL := s.links.CanonicalURL(content.Title, date)
	timeRequired := readingTime(wordCount)

	html := s.renderHTML(body)

	media := s.buildMedia(d, content.Title)
	stories := s.buildStories(d)
	related := buildRelated(d)

	now := s.now().UTC()
	modified := now.Format(time.RFC3339)

	tags := content.Tags
	if tags == nil {
		tags = []string{}
	}

	pkg := &Package{
		Meta: Meta{
			Kind:        PackageKind,
			Version:     PackageVersion,
			ID:          identity.PackageUUID(canonicalURL).String(),
			GeneratedAt: modified,
		},
		URL:           canonicalURL,
		DatePublished: date,
		DateModified:  modified,
		WordCount:     wordCount,
		TimeRequired:  timeRequired,
		Content: Content{
			Title:   content.Title,
			Summary: content.Summary,
			Body:    body,
			HTML:    html,
			Tags:    tags,
		},
		Media:   media,
		Stories: stories,
		Related: related,
		Headers: Headers{
			XRobotsTag:   headerRobots,
			CacheControl: headerCacheControl,
			ETag:         ComputeETag(canonicalURL, wordCount, body),
		},
	}

	pkg.Schema = schemaorg.NewBlogPosting(schemaorg.Input{
		Headline:      content.Title,
		Description:   content.Summary,
		CanonicalURL:  canonicalURL,
		DatePublished: date,
		DateModified:  modified,
		WordCount:     wordCount,
		TimeRequired:  timeRequired,
		AuthorName:    s.opts.AuthorName,
		SiteName:      s.opts.SiteName,
		SiteURL:       strings.TrimRight(strings.TrimSpace(s.opts.SiteBaseURL), "/"),
		LogoURL:       s.opts.LogoURL,
		HeroImage:     media.Hero.Image,
		Tags:          tags,
		Videos:        schemaVideos(media.Videos),
	})

	s.logger.Debug("publish.package.built",
		"date", date,
		"url", canonicalURL,
		"word_count", wordCount,
		"videos", len(media.Videos),
	)
	return pkg, nil
}

func (s *Serializer) renderHTML(body string) string {
	if body == "" {
		return ""
	}
	rendered, err := s.parser.Parse([]byte(body))
	if err != nil {
		s.logger.Warn("publish.render.failed", "error", err)
		return ""
	}
	return string(rendered)
}

// buildMedia collects the rendered story videos and picks the hero image:
// the first video thumbnail, or the configured fallback when nothing
// rendered.
func (s *Serializer) buildMedia(d *digest.Digest, title string) Media {
	media := Media{Videos: []Video{}}

	for _, packet := range d.StoryPackets {
		if !packet.Video.Rendered() {
			continue
		}
		media.Videos = append(media.Videos, Video{
			ID:         packet.ID,
			Name:       packet.DisplayTitle(),
			URL:        s.mediaURL(packet.Video.Path),
			Thumbnail:  s.mediaURL(videoThumbnail(packet.Video.Path)),
			Duration:   packet.Video.Duration,
			UploadDate: packet.MergedAt,
		})
	}

	media.Hero = Hero{Image: s.opts.HeroImage, Alt: title}
	if len(media.Videos) > 0 {
		media.Hero.Image = media.Videos[0].Thumbnail
	}
	return media
}

// buildStories maps every story packet to its narrative entry. VideoID is
// set only when the packet's video actually rendered, so it always points
// at an entry in media.videos.
func (s *Serializer) buildStories(d *digest.Digest) []Story {
	stories := []Story{}
	for _, packet := range d.StoryPackets {
		story := Story{
			ID:         packet.ID,
			Title:      packet.DisplayTitle(),
			Why:        packet.Why,
			Highlights: packet.Highlights,
			MergedAt:   packet.MergedAt,
		}
		if packet.Video.Rendered() {
			id := packet.ID
			story.VideoID = &id
		}
		stories = append(stories, story)
	}
	return stories
}

func buildRelated(d *digest.Digest) []RelatedPost {
	related := []RelatedPost{}
	for _, post := range d.RelatedPosts {
		score := defaultRelatedScore
		if post.Score != nil {
			score = *post.Score
		}
		related = append(related, RelatedPost{
			Title: post.Title,
			URL:   post.URL,
			Image: post.Image,
			Score: score,
		})
	}
	return related
}

// mediaURL resolves a video asset path against the media base URL.
// Absolute URLs pass through untouched.
func (s *Serializer) mediaURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(strings.TrimSpace(s.opts.MediaBaseURL), "/")
	if base == "" {
		return path
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// videoThumbnail derives the intro frame asset from a rendered video path.
func videoThumbnail(path string) string {
	if strings.HasSuffix(path, ".mp4") {
		return strings.TrimSuffix(path, ".mp4") + videoThumbSuffix
	}
	return path + videoThumbSuffix
}

// readingTime renders the ISO 8601 duration estimate with a one minute
// floor.
func readingTime(wordCount int) string {
	minutes := wordCount / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("PT%dM", minutes)
}

func schemaVideos(videos []Video) []schemaorg.VideoObject {
	if len(videos) == 0 {
		return nil
	}
	out := make([]schemaorg.VideoObject, 0, len(videos))
	for _, v := range videos {
		out = append(out, schemaorg.VideoObject{
			Type:         "VideoObject",
			Name:         v.Name,
			ContentURL:   v.URL,
			ThumbnailURL: v.Thumbnail,
			UploadDate:   v.UploadDate,
		})
	}
	return out
}
