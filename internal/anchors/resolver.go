package anchors

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/goliatone/go-devlog/digest"
	"github.com/goliatone/go-devlog/internal/canonical"
	"github.com/goliatone/go-devlog/internal/logging"
	"github.com/goliatone/go-devlog/pkg/interfaces"
)

const (
	// DefaultSignature closes every post; the sentinel phrase also guards
	// against appending it twice when a body is resolved more than once.
	DefaultSignature = "---\n\n*Hi, I'm Chris. I'm a morally ambiguous technology marketer building things in public. Watch it happen live on [Twitch](https://twitch.tv/paulchrisluke) or dig through the code on [GitHub](https://github.com/paulchrisluke).*"
	// DefaultSentinel is the phrase whose presence marks a body as already
	// signed.
	DefaultSentinel = "morally ambiguous technology marketer"
)

const twitchEmbedBase = "https://clips.twitch.tv/embed"

var (
	clipHosts = map[string]struct{}{
		"clips.twitch.tv":     {},
		"www.clips.twitch.tv": {},
	}

	// Matches existing PR links first so bare mentions can be wrapped
	// without nesting markdown inside link text.
	prMentionPattern = regexp.MustCompile(`\[PR #\d+\]\([^)]*\)|PR #(\d+)`)
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger attaches a logger; the zero value is a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEmbedDomains sets the comma-separated parent domains interpolated into
// clip embeds. Invalid domains disable embedding rather than failing the
// whole resolution.
func WithEmbedDomains(domains string) Option {
	return func(r *Resolver) {
		r.rawDomains = domains
	}
}

// WithLinks supplies the repository link builder used for pull request,
// commit, and event URLs.
func WithLinks(links *canonical.Links) Option {
	return func(r *Resolver) {
		r.links = links
	}
}

// WithSignature overrides the closing signature and its idempotence
// sentinel. An empty signature disables the closing block.
func WithSignature(signature, sentinel string) Option {
	return func(r *Resolver) {
		r.signature = signature
		r.sentinel = sentinel
	}
}

// Resolver rewrites digest anchor tokens ([PR:n], [CLIP:id], [EVENT:id])
// into markdown links and embeds, enriches clip mentions, and appends the
// closing signature. Every pass fails open: a token that cannot be resolved
// is left in place and a clip that cannot be embedded degrades to a plain
// link, so resolution never loses body text.
type Resolver struct {
	logger interfaces.Logger
	links  *canonical.Links

	prNumbers map[int]struct{}
	clips     map[string]digest.TwitchClip
	events    map[string]digest.GitHubEvent

	rawDomains     string
	escapedDomains string
	domainsErr     error

	signature string
	sentinel  string

	printer *message.Printer
}

// NewResolver indexes the digest's story packets, clips, and events and
// validates the embed domain configuration once up front.
func NewResolver(d *digest.Digest, opts ...Option) *Resolver {
	r := &Resolver{
		logger:    logging.NoOp(),
		prNumbers: map[int]struct{}{},
		clips:     map[string]digest.TwitchClip{},
		events:    map[string]digest.GitHubEvent{},
		signature: DefaultSignature,
		sentinel:  DefaultSentinel,
		printer:   message.NewPrinter(language.English),
	}

	for _, opt := range opts {
		opt(r)
	}

	if d != nil {
		for _, packet := range d.StoryPackets {
			if packet.PRNumber > 0 {
				r.prNumbers[packet.PRNumber] = struct{}{}
			}
		}
		for _, clip := range d.TwitchClips {
			if clip.ID != "" {
				r.clips[clip.ID] = clip
			}
		}
		for _, event := range d.GitHubEvents {
			if event.ID != "" {
				r.events[event.ID] = event
			}
			// Only merged pull requests become links; open or closed
			// unmerged PRs keep their tokens verbatim.
			if event.Type == "PullRequestEvent" && event.Details.Merged && event.Details.Number > 0 {
				r.prNumbers[event.Details.Number] = struct{}{}
			}
		}
	}

	if r.rawDomains != "" {
		r.escapedDomains, r.domainsErr = ValidateAndEscapeDomains(r.rawDomains)
		if r.domainsErr != nil {
			r.logger.Warn("anchors.domains.invalid", "domains", r.rawDomains, "error", r.domainsErr)
		}
	} else {
		r.domainsErr = ErrEmptyDomains
	}

	return r
}

// Resolve runs every rewriting pass over the body in a fixed order: anchor
// tokens, free-text PR mentions, clip embeds, view-count annotations, and
// the closing signature. A panic in any pass returns the body unchanged.
func (r *Resolver) Resolve(body string) (out string) {
	if strings.TrimSpace(body) == "" {
		return body
	}

	out = body
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("anchors.resolve.panic", "error", fmt.Sprint(rec))
			out = body
		}
	}()

	out = r.resolvePullRequests(out)
	out = r.resolveClips(out)
	out = r.resolveEvents(out)
	out = r.linkMentions(out)

	var embedded map[string]bool
	out, embedded = r.embedRenderedClips(out)
	out = r.annotateViewCounts(out, embedded)
	out = r.appendSignature(out)
	return out
}

// resolvePullRequests rewrites [PR:n] tokens for pull requests the digest
// knows about, via story packets or merged PullRequestEvents. Tokens with
// no matching pull request are left alone.
func (r *Resolver) resolvePullRequests(body string) string {
	if r.links == nil || !r.links.HasRepo() {
		return body
	}
	for number := range r.prNumbers {
		token := fmt.Sprintf("[PR:%d]", number)
		if !strings.Contains(body, token) {
			continue
		}
		link := fmt.Sprintf("[PR #%d](%s)", number, r.links.PullURL(number))
		body = strings.ReplaceAll(body, token, link)
	}
	return body
}

// resolveClips rewrites [CLIP:id] tokens into embeds, degrading to a plain
// markdown link when the clip URL or the embed domains fail validation.
func (r *Resolver) resolveClips(body string) string {
	for id, clip := range r.clips {
		token := "[CLIP:" + id + "]"
		if !strings.Contains(body, token) {
			continue
		}
		if clip.URL == "" {
			continue
		}

		embed, err := r.clipEmbed(clip)
		if err != nil {
			r.logger.Warn("anchors.clip.fallback", "clip_id", id, "error", err)
			embed = clipLink(clip)
		}
		body = strings.ReplaceAll(body, token, embed)
	}
	return body
}

// resolveEvents rewrites [EVENT:id] tokens by event type: pull request
// events link to the pull request, push events link to the head commit, and
// everything else links to the raw event.
func (r *Resolver) resolveEvents(body string) string {
	if r.links == nil || !r.links.HasRepo() {
		return body
	}
	for id, event := range r.events {
		token := "[EVENT:" + id + "]"
		if !strings.Contains(body, token) {
			continue
		}
		body = strings.ReplaceAll(body, token, r.eventLink(event))
	}
	return body
}

func (r *Resolver) eventLink(event digest.GitHubEvent) string {
	switch {
	case event.Type == "PullRequestEvent" && event.Details.Number > 0:
		return fmt.Sprintf("[PR #%d](%s)", event.Details.Number, r.links.PullURL(event.Details.Number))
	case event.Type == "PushEvent" && event.Details.CommitSHA != "":
		sha := event.Details.CommitSHA
		short := sha
		if len(short) > 7 {
			short = short[:7]
		}
		return fmt.Sprintf("[commit %s](%s)", short, r.links.CommitURL(sha))
	default:
		label := event.Title
		if label == "" {
			label = event.Type
		}
		return fmt.Sprintf("[%s](%s)", label, r.links.EventURL(event.ID))
	}
}

// linkMentions wraps bare "PR #n" mentions for pull requests in the digest.
// Mentions already inside a markdown link are matched first and passed
// through untouched.
func (r *Resolver) linkMentions(body string) string {
	if r.links == nil || !r.links.HasRepo() {
		return body
	}
	return prMentionPattern.ReplaceAllStringFunc(body, func(match string) string {
		if strings.HasPrefix(match, "[") {
			return match
		}
		number, err := strconv.Atoi(strings.TrimPrefix(match, "PR #"))
		if err != nil {
			return match
		}
		if _, ok := r.prNumbers[number]; !ok {
			return match
		}
		return fmt.Sprintf("[PR #%d](%s)", number, r.links.PullURL(number))
	})
}

// embedRenderedClips inserts an embed after each quoted clip title that can
// be embedded, returning the set of clip IDs it touched.
func (r *Resolver) embedRenderedClips(body string) (string, map[string]bool) {
	embedded := map[string]bool{}
	for id, clip := range r.clips {
		if clip.Title == "" || clip.URL == "" {
			continue
		}
		quoted := `"` + clip.Title + `"`
		if !strings.Contains(body, quoted) {
			continue
		}

		embed, err := r.clipEmbed(clip)
		if err != nil {
			continue
		}
		body = strings.ReplaceAll(body, quoted, quoted+"\n\n"+embed+"\n")
		embedded[id] = true
	}
	return body, embedded
}

// annotateViewCounts appends a thousands-separated view count to quoted
// clip titles the embed pass did not touch.
func (r *Resolver) annotateViewCounts(body string, embedded map[string]bool) string {
	for id, clip := range r.clips {
		if embedded[id] || clip.Title == "" || clip.ViewCount <= 0 {
			continue
		}
		quoted := `"` + clip.Title + `"`
		if !strings.Contains(body, quoted) {
			continue
		}
		annotated := fmt.Sprintf("%s (%s views)", quoted, r.printer.Sprintf("%d", clip.ViewCount))
		body = strings.ReplaceAll(body, quoted, annotated)
	}
	return body
}

// appendSignature adds the closing signature unless the sentinel phrase is
// already present, which keeps repeated resolution idempotent.
func (r *Resolver) appendSignature(body string) string {
	if r.signature == "" {
		return body
	}
	if r.sentinel != "" && strings.Contains(body, r.sentinel) {
		return body
	}
	return strings.TrimRight(body, "\n ") + "\n\n" + r.signature + "\n"
}

// clipEmbed renders the iframe embed for a clip, validating both the clip
// URL and the configured parent domains.
func (r *Resolver) clipEmbed(clip digest.TwitchClip) (string, error) {
	if r.domainsErr != nil {
		return "", r.domainsErr
	}

	clipID, err := parseClipURL(clip.URL)
	if err != nil {
		return "", err
	}

	src := fmt.Sprintf("%s?clip=%s&parent=%s", twitchEmbedBase, clipID, r.escapedDomains)
	return fmt.Sprintf(`<iframe src="%s" frameborder="0" allowfullscreen="true" scrolling="no" height="378" width="620"></iframe>`, src), nil
}

// clipLink renders the plain markdown fallback for a clip.
func clipLink(clip digest.TwitchClip) string {
	title := clip.Title
	if title == "" {
		title = clip.ID
	}
	return fmt.Sprintf("[Clip: %s](%s)", title, clip.URL)
}

// parseClipURL extracts the embeddable clip slug from a clip URL. Both the
// host and the slug must be present, the host must be a Twitch clips host,
// and the slug must be at least three characters.
func parseClipURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidClipURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidClipURL, u.Scheme)
	}
	if _, ok := clipHosts[strings.ToLower(u.Host)]; !ok {
		return "", fmt.Errorf("%w: host %q", ErrInvalidClipURL, u.Host)
	}

	segments := []string{}
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: missing clip slug", ErrInvalidClipURL)
	}

	slug := segments[len(segments)-1]
	if len(slug) < 3 {
		return "", fmt.Errorf("%w: clip slug %q too short", ErrInvalidClipURL, slug)
	}
	return slug, nil
}
