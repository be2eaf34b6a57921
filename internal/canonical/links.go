package canonical

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	frontendGroup = "frontend"
	githubGroup   = "github"
)

// ErrMissingBaseURL indicates the link builder was constructed without a
// site base URL.
var ErrMissingBaseURL = errors.New("canonical: base URL is required")

// Links builds every absolute URL the publish package refers to: canonical
// post URLs on the site, and pull request, commit, and event URLs on the
// source repository.
type Links struct {
	manager *urlkit.RouteManager
}

// NewLinks constructs a link builder for the given site and repository base
// URLs. Trailing slashes on either base are ignored.
func NewLinks(siteBaseURL, repoBaseURL string) (*Links, error) {
	siteBaseURL = strings.TrimRight(strings.TrimSpace(siteBaseURL), "/")
	if siteBaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	repoBaseURL = strings.TrimRight(strings.TrimSpace(repoBaseURL), "/")

	siteRoot, sitePrefix := splitBase(siteBaseURL)
	groups := []urlkit.GroupConfig{
		{
			Name:    frontendGroup,
			BaseURL: siteRoot,
			Paths: map[string]string{
				"post": sitePrefix + "/blog/:year/:month/:day/:slug",
				"blog": sitePrefix + "/blog",
			},
		},
	}
	if repoBaseURL != "" {
		repoRoot, repoPrefix := splitBase(repoBaseURL)
		groups = append(groups, urlkit.GroupConfig{
			Name:    githubGroup,
			BaseURL: repoRoot,
			Paths: map[string]string{
				"pull":   repoPrefix + "/pull/:number",
				"commit": repoPrefix + "/commit/:sha",
				"event":  repoPrefix + "/events/:id",
			},
		})
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{Groups: groups})
	return &Links{manager: manager}, nil
}

// CanonicalURL builds the dated canonical URL for a post. A date that fails
// to parse as YYYY-MM-DD degrades to the undated blog root; both forms keep
// the trailing slash.
func (l *Links) CanonicalURL(title, date string) string {
	slug := Slugify(title)

	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(date))
	if err != nil {
		return l.build(frontendGroup, "blog", nil)
	}

	return l.build(frontendGroup, "post", map[string]any{
		"year":  fmt.Sprintf("%04d", parsed.Year()),
		"month": fmt.Sprintf("%02d", parsed.Month()),
		"day":   fmt.Sprintf("%02d", parsed.Day()),
		"slug":  slug,
	})
}

// PullURL builds the repository URL for a pull request number.
func (l *Links) PullURL(number int) string {
	return strings.TrimRight(l.build(githubGroup, "pull", map[string]any{"number": number}), "/")
}

// CommitURL builds the repository URL for a commit SHA.
func (l *Links) CommitURL(sha string) string {
	return strings.TrimRight(l.build(githubGroup, "commit", map[string]any{"sha": sha}), "/")
}

// EventURL builds the repository URL for a raw event identifier.
func (l *Links) EventURL(id string) string {
	return strings.TrimRight(l.build(githubGroup, "event", map[string]any{"id": id}), "/")
}

// HasRepo reports whether repository links can be built.
func (l *Links) HasRepo() bool {
	if l == nil || l.manager == nil {
		return false
	}
	_, err := l.group(githubGroup)
	return err == nil
}

// build resolves a route with panic recovery; urlkit panics on unknown
// groups instead of returning an error.
func (l *Links) build(groupName, route string, params map[string]any) (out string) {
	group, err := l.group(groupName)
	if err != nil || group == nil {
		return ""
	}

	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	builder := group.Builder(route)
	for key, val := range params {
		builder.WithParam(key, val)
	}

	url, err := builder.Build()
	if err != nil {
		return ""
	}
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	return url
}

// splitBase separates a base URL into its scheme://host root and any path
// prefix. Group base URLs keep only the root, so path-bearing bases such as
// repository URLs (https://github.com/owner/repo) must carry their path in
// the route templates instead.
func splitBase(raw string) (root, prefix string) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return raw, ""
	}
	prefix = strings.TrimRight(parsed.Path, "/")
	parsed.Path = ""
	parsed.RawPath = ""
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String(), prefix
}

func (l *Links) group(name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("canonical: unknown url group %q: %v", name, rec)
		}
	}()
	return l.manager.Group(name), nil
}
