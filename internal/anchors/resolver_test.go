package anchors

import (
	"strings"
	"testing"

	"github.com/goliatone/go-devlog/digest"
	"github.com/goliatone/go-devlog/internal/canonical"
)

func testLinks(t *testing.T) *canonical.Links {
	t.Helper()
	links, err := canonical.NewLinks("https://paulchrisluke.com", "https://github.com/paulchrisluke/pcl-labs")
	if err != nil {
		t.Fatalf("NewLinks returned error: %v", err)
	}
	return links
}

func testDigest() *digest.Digest {
	return &digest.Digest{
		Date: "2025-08-26",
		StoryPackets: []digest.StoryPacket{
			{ID: "pr-34", PRNumber: 34, TitleHuman: "Fix the video pipeline"},
		},
		TwitchClips: []digest.TwitchClip{
			{
				ID:        "abc123",
				Title:     "Debugging the renderer live",
				URL:       "https://clips.twitch.tv/AbcClip123",
				ViewCount: 1523,
			},
		},
		GitHubEvents: []digest.GitHubEvent{
			{ID: "411", Type: "PullRequestEvent", Details: digest.EventDetails{Number: 34}},
			{ID: "412", Type: "PushEvent", Details: digest.EventDetails{CommitSHA: "abc1234def5678"}},
			{ID: "413", Type: "IssuesEvent", Title: "tracking issue"},
		},
	}
}

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	base := []Option{
		WithLinks(testLinks(t)),
		WithEmbedDomains("paulchrisluke.com"),
		WithSignature("", ""),
	}
	return NewResolver(testDigest(), append(base, opts...)...)
}

func TestResolvePRToken(t *testing.T) {
	r := newTestResolver(t)
	got := r.Resolve("Today we merged [PR:34] after review.")
	want := "Today we merged [PR #34](https://github.com/paulchrisluke/pcl-labs/pull/34) after review."
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestUnresolvedTokensPassThrough(t *testing.T) {
	r := newTestResolver(t)
	body := "Nothing matches [PR:99] or [CLIP:nope] or [EVENT:999]."
	if got := r.Resolve(body); got != body {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestResolveClipTokenEmbeds(t *testing.T) {
	r := newTestResolver(t)
	got := r.Resolve("Watch this: [CLIP:abc123]")

	if !strings.Contains(got, "<iframe") {
		t.Fatalf("expected iframe embed, got %q", got)
	}
	if !strings.Contains(got, "clip=AbcClip123") {
		t.Fatalf("expected clip slug in embed src, got %q", got)
	}
	if !strings.Contains(got, "parent=paulchrisluke.com") {
		t.Fatalf("expected parent domain in embed src, got %q", got)
	}
}

func TestResolveClipTokenFallsBackOnBadURL(t *testing.T) {
	d := testDigest()
	d.TwitchClips[0].URL = "https://example.com/AbcClip123"
	r := NewResolver(d, WithLinks(testLinks(t)), WithEmbedDomains("paulchrisluke.com"), WithSignature("", ""))

	got := r.Resolve("Watch this: [CLIP:abc123]")
	want := "Watch this: [Clip: Debugging the renderer live](https://example.com/AbcClip123)"
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveClipTokenFallsBackOnBadDomains(t *testing.T) {
	r := NewResolver(testDigest(), WithLinks(testLinks(t)), WithEmbedDomains("<bad>"), WithSignature("", ""))
	got := r.Resolve("[CLIP:abc123]")
	if strings.Contains(got, "<iframe") {
		t.Fatalf("expected no embed with invalid domains, got %q", got)
	}
	if !strings.Contains(got, "[Clip: Debugging the renderer live](https://clips.twitch.tv/AbcClip123)") {
		t.Fatalf("expected markdown fallback, got %q", got)
	}
}

func TestResolveEventTokens(t *testing.T) {
	r := newTestResolver(t)

	got := r.Resolve("See [EVENT:411].")
	if !strings.Contains(got, "[PR #34](https://github.com/paulchrisluke/pcl-labs/pull/34)") {
		t.Fatalf("expected PR link for pull request event, got %q", got)
	}

	got = r.Resolve("See [EVENT:412].")
	if !strings.Contains(got, "[commit abc1234](https://github.com/paulchrisluke/pcl-labs/commit/abc1234def5678)") {
		t.Fatalf("expected commit link for push event, got %q", got)
	}

	got = r.Resolve("See [EVENT:413].")
	if !strings.Contains(got, "[tracking issue](https://github.com/paulchrisluke/pcl-labs/events/413)") {
		t.Fatalf("expected generic event link, got %q", got)
	}
}

func TestLinkMentionsWrapsBareReferences(t *testing.T) {
	r := newTestResolver(t)
	got := r.Resolve("We discussed PR #34 at length. PR #99 stays bare.")
	if !strings.Contains(got, "[PR #34](https://github.com/paulchrisluke/pcl-labs/pull/34)") {
		t.Fatalf("expected wrapped mention, got %q", got)
	}
	if !strings.Contains(got, "PR #99 stays bare") {
		t.Fatalf("expected unknown PR mention untouched, got %q", got)
	}
}

func TestLinkMentionsDoesNotNestExistingLinks(t *testing.T) {
	r := newTestResolver(t)
	got := r.Resolve("Merged [PR:34], then more talk of PR #34 later.")

	if strings.Contains(got, "[[") || strings.Contains(got, "]]") {
		t.Fatalf("nested link markup in %q", got)
	}
	if strings.Count(got, "(https://github.com/paulchrisluke/pcl-labs/pull/34)") != 2 {
		t.Fatalf("expected both references linked once each, got %q", got)
	}
}

func TestEmbedAfterQuotedTitle(t *testing.T) {
	r := newTestResolver(t)
	got := r.Resolve(`We streamed "Debugging the renderer live" today.`)

	if !strings.Contains(got, `"Debugging the renderer live"`) {
		t.Fatalf("quoted title removed: %q", got)
	}
	if !strings.Contains(got, "clip=AbcClip123") {
		t.Fatalf("expected embed inserted after quoted title, got %q", got)
	}
	if strings.Contains(got, "views)") {
		t.Fatalf("embedded clip should not get a view count annotation: %q", got)
	}
}

func TestViewCountAnnotationForUnembeddableClip(t *testing.T) {
	d := testDigest()
	d.TwitchClips[0].URL = "ftp://clips.twitch.tv/AbcClip123"
	r := NewResolver(d, WithLinks(testLinks(t)), WithEmbedDomains("paulchrisluke.com"), WithSignature("", ""))

	got := r.Resolve(`We streamed "Debugging the renderer live" today.`)
	if !strings.Contains(got, `"Debugging the renderer live" (1,523 views)`) {
		t.Fatalf("expected thousands-separated view count, got %q", got)
	}
}

func TestSignatureAppendedOnce(t *testing.T) {
	r := NewResolver(testDigest(), WithLinks(testLinks(t)), WithEmbedDomains("paulchrisluke.com"))

	first := r.Resolve("Plain body.")
	if !strings.Contains(first, DefaultSentinel) {
		t.Fatalf("expected signature appended, got %q", first)
	}

	second := r.Resolve(first)
	if strings.Count(second, DefaultSentinel) != 1 {
		t.Fatalf("expected signature once after re-resolution, got %q", second)
	}
}

func TestResolveEmptyBody(t *testing.T) {
	r := newTestResolver(t)
	for _, body := range []string{"", "   "} {
		if got := r.Resolve(body); got != body {
			t.Fatalf("expected empty body passthrough, got %q", got)
		}
	}
}

func TestParseClipURL(t *testing.T) {
	cases := []struct {
		url    string
		wantID string
		ok     bool
	}{
		{"https://clips.twitch.tv/AbcClip123", "AbcClip123", true},
		{"http://www.clips.twitch.tv/some/NestedClip", "NestedClip", true},
		{"ftp://clips.twitch.tv/AbcClip123", "", false},
		{"https://example.com/AbcClip123", "", false},
		{"https://clips.twitch.tv/", "", false},
		{"https://clips.twitch.tv/ab", "", false},
	}
	for _, tc := range cases {
		id, err := parseClipURL(tc.url)
		if tc.ok && (err != nil || id != tc.wantID) {
			t.Fatalf("parseClipURL(%q) = %q, %v; want %q", tc.url, id, err, tc.wantID)
		}
		if !tc.ok && err == nil {
			t.Fatalf("parseClipURL(%q) expected error", tc.url)
		}
	}
}

func TestResolvePRTokenFromEventOnly(t *testing.T) {
	d := &digest.Digest{
		Date: "2025-08-26",
		GitHubEvents: []digest.GitHubEvent{
			{ID: "500", Type: "PullRequestEvent", Details: digest.EventDetails{Number: 34, Merged: true}},
		},
	}
	r := NewResolver(d, WithLinks(testLinks(t)), WithSignature("", ""))

	got := r.Resolve("See [PR:34] for details")
	want := "See [PR #34](https://github.com/paulchrisluke/pcl-labs/pull/34) for details"
	if got != want {
		t.Fatalf("Resolve = %q, want %q", got, want)
	}
}

func TestResolveIgnoresUnmergedPullRequestEvents(t *testing.T) {
	d := &digest.Digest{
		Date: "2025-08-26",
		GitHubEvents: []digest.GitHubEvent{
			{ID: "501", Type: "PullRequestEvent", Details: digest.EventDetails{Number: 77, Merged: false}},
		},
	}
	r := NewResolver(d, WithLinks(testLinks(t)), WithSignature("", ""))

	body := "Opened [PR:77] today, follow-up in PR #77"
	if got := r.Resolve(body); got != body {
		t.Fatalf("Resolve = %q, want unchanged body", got)
	}
}
