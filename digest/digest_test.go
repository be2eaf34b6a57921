package digest

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/goliatone/go-devlog/pkg/testsupport"
)

func TestParseValidDigest(t *testing.T) {
	payload := []byte(`{
		"date": "2025-08-26",
		"title": "Shipping the uploader",
		"description": "What happened today",
		"story_packets": [
			{"id": "pr-34", "title_human": "Fix the video pipeline", "video": {"status": "rendered", "path": "assets/pr-34.mp4"}}
		],
		"twitch_clips": [
			{"id": "abc123", "title": "Debugging live", "url": "https://clips.twitch.tv/AbcClip123", "view_count": 1523}
		],
		"github_events": [
			{"id": "411", "type": "PullRequestEvent", "details": {"number": 34, "merged": true}}
		]
	}`)

	d, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if d.Date != "2025-08-26" {
		t.Fatalf("expected date 2025-08-26, got %q", d.Date)
	}
	if len(d.StoryPackets) != 1 || !d.StoryPackets[0].Video.Rendered() {
		t.Fatalf("expected one rendered story packet, got %#v", d.StoryPackets)
	}
	if d.TwitchClips[0].ViewCount != 1523 {
		t.Fatalf("expected view count 1523, got %d", d.TwitchClips[0].ViewCount)
	}
	if d.GitHubEvents[0].Details.Number != 34 {
		t.Fatalf("expected PR number 34, got %d", d.GitHubEvents[0].Details.Number)
	}
}

func TestParseRejectsBadDate(t *testing.T) {
	_, err := Parse([]byte(`{"date": "August 26"}`))
	if !errors.Is(err, ErrSchemaViolation) {
		t.Fatalf("expected schema violation, got %v", err)
	}

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) || len(schemaErr.Issues) == 0 {
		t.Fatalf("expected located issues, got %v", err)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"date": `))
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected invalid JSON error, got %v", err)
	}
}

func TestParseRejectsEmptyPayload(t *testing.T) {
	for _, payload := range [][]byte{nil, []byte("   \n")} {
		if _, err := Parse(payload); !errors.Is(err, ErrEmptyDocument) {
			t.Fatalf("expected empty document error, got %v", err)
		}
	}
}

func TestParseDocument(t *testing.T) {
	source := []byte(`---
title: "Daily notes"
description: "A short day"
date: "2025-08-26T10:00:00Z"
tags: [devlog, video]
---

Body paragraph one.
`)

	d, err := ParseDocument(source)
	if err != nil {
		t.Fatalf("ParseDocument returned error: %v", err)
	}
	if d.Date != "2025-08-26" {
		t.Fatalf("expected truncated date, got %q", d.Date)
	}
	if d.Frontmatter == nil || d.Frontmatter.Title != "Daily notes" {
		t.Fatalf("expected frontmatter title, got %#v", d.Frontmatter)
	}
	if d.MarkdownBody != "Body paragraph one." {
		t.Fatalf("unexpected body %q", d.MarkdownBody)
	}
}

func TestParseDocumentRequiresDate(t *testing.T) {
	source := []byte("---\ntitle: No date\n---\nbody\n")
	if _, err := ParseDocument(source); !errors.Is(err, ErrMissingDate) {
		t.Fatalf("expected missing date error, got %v", err)
	}
}

func TestExtractContentPrefersFrontmatter(t *testing.T) {
	d := &Digest{
		Date:        "2025-08-26",
		Title:       "top level title",
		Description: "top level description",
		Tags:        []string{"top"},
		Frontmatter: &Frontmatter{
			Title:       "frontmatter title",
			Description: "frontmatter description",
			Tags:        []string{"front"},
		},
		MarkdownBody: "the body",
	}

	content := d.ExtractContent()
	if content.Title != "frontmatter title" {
		t.Fatalf("expected frontmatter title, got %q", content.Title)
	}
	if content.Summary != "frontmatter description" {
		t.Fatalf("expected frontmatter description, got %q", content.Summary)
	}
	if len(content.Tags) != 1 || content.Tags[0] != "front" {
		t.Fatalf("expected frontmatter tags only, got %v", content.Tags)
	}
	if content.Body != "the body" {
		t.Fatalf("expected markdown body, got %q", content.Body)
	}
}

func TestExtractContentTopLevelFallback(t *testing.T) {
	d := &Digest{
		Date:        "2025-08-26",
		Title:       "top level title",
		Description: "top level description",
	}
	content := d.ExtractContent()
	if content.Title != "top level title" || content.Summary != "top level description" {
		t.Fatalf("expected top-level metadata, got %#v", content)
	}
}

func TestExtractContentNeverMergesShapes(t *testing.T) {
	obj, _ := json.Marshal(map[string]any{
		"title": "object title",
		"tags":  []string{"object"},
		"body":  "object body",
	})

	// Top-level metadata wins as a whole; the object's title and tags
	// must not leak in to fill the gaps.
	d := &Digest{
		Date:        "2025-08-26",
		Description: "top level description",
		Content:     obj,
	}
	content := d.ExtractContent()
	if content.Title != "" {
		t.Fatalf("expected no title from the content object, got %q", content.Title)
	}
	if len(content.Tags) != 0 {
		t.Fatalf("expected no tags from the content object, got %v", content.Tags)
	}
	if content.Summary != "top level description" {
		t.Fatalf("expected top-level description, got %q", content.Summary)
	}
	if content.Body != "object body" {
		t.Fatalf("expected content.body, got %q", content.Body)
	}
}

func TestExtractContentObjectShapeFallback(t *testing.T) {
	obj, _ := json.Marshal(map[string]any{
		"title":       "object title",
		"description": "object description",
		"tags":        []string{"object"},
		"body":        "object body",
	})

	d := &Digest{Date: "2025-08-26", Content: obj}
	content := d.ExtractContent()
	if content.Title != "object title" {
		t.Fatalf("expected object title, got %q", content.Title)
	}
	if content.Summary != "object description" {
		t.Fatalf("expected object description, got %q", content.Summary)
	}
	if len(content.Tags) != 1 || content.Tags[0] != "object" {
		t.Fatalf("expected object tags, got %v", content.Tags)
	}
}

func TestExtractContentBodyPriority(t *testing.T) {
	obj, _ := json.Marshal(map[string]any{"body": "object body"})

	d := &Digest{
		Date:         "2025-08-26",
		Content:      obj,
		MarkdownBody: "markdown body",
		ArticleBody:  "article body",
	}
	if got := d.ExtractContent().Body; got != "object body" {
		t.Fatalf("expected content.body to win, got %q", got)
	}

	d.Content = nil
	if got := d.ExtractContent().Body; got != "markdown body" {
		t.Fatalf("expected markdown_body, got %q", got)
	}

	d.MarkdownBody = ""
	d.Content, _ = json.Marshal("string body")
	if got := d.ExtractContent().Body; got != "string body" {
		t.Fatalf("expected content string, got %q", got)
	}

	d.Content = nil
	if got := d.ExtractContent().Body; got != "article body" {
		t.Fatalf("expected articleBody fallback, got %q", got)
	}
}

func TestExtractContentStripsPlaceholders(t *testing.T) {
	d := &Digest{
		Date:         "2025-08-26",
		Description:  "[AI_GENERATE_SEO_DESCRIPTION]",
		MarkdownBody: "real words [AI_GENERATE_LEAD]",
	}
	content := d.ExtractContent()
	if content.Summary != "" {
		t.Fatalf("expected placeholder summary to be emptied, got %q", content.Summary)
	}
	if content.Body != "real words" {
		t.Fatalf("expected cleaned body, got %q", content.Body)
	}
}

func TestParseFixtureDigest(t *testing.T) {
	payload, err := testsupport.LoadFixture("testdata/digest_full.json")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}

	d, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(d.StoryPackets) != 2 {
		t.Fatalf("expected 2 story packets, got %d", len(d.StoryPackets))
	}
	if !d.StoryPackets[0].Video.Rendered() {
		t.Fatal("expected first packet video to be rendered")
	}
	if d.StoryPackets[1].Video.Rendered() {
		t.Fatal("expected pending video to not count as rendered")
	}

	var want Content
	if err := testsupport.LoadGolden("testdata/digest_full_content.golden.json", &want); err != nil {
		t.Fatalf("load golden: %v", err)
	}
	got := d.ExtractContent()
	if got.Title != want.Title || got.Summary != want.Summary || got.Body != want.Body {
		t.Fatalf("extracted content mismatch\nwant: %+v\ngot:  %+v", want, got)
	}
	if len(got.Tags) != len(want.Tags) {
		t.Fatalf("expected %d tags, got %d", len(want.Tags), len(got.Tags))
	}
}
