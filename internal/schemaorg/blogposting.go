// Package schemaorg assembles the JSON-LD payload embedded in publish
// packages. Only the BlogPosting shape the site consumes is modelled.
package schemaorg

import "strings"

// Thing is the minimal typed node shared by nested schema.org values.
type Thing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ImageObject points at an image asset.
type ImageObject struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

// Organization identifies the publisher, with an optional logo.
type Organization struct {
	Type string       `json:"@type"`
	Name string       `json:"name"`
	URL  string       `json:"url,omitempty"`
	Logo *ImageObject `json:"logo,omitempty"`
}

// WebPage anchors the posting to its canonical page.
type WebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// VideoObject describes one rendered story video attached to the posting.
type VideoObject struct {
	Type         string `json:"@type"`
	Name         string `json:"name"`
	ContentURL   string `json:"contentUrl"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	UploadDate   string `json:"uploadDate,omitempty"`
}

// BlogPosting is the JSON-LD document for one published post.
type BlogPosting struct {
	Context          string        `json:"@context"`
	Type             string        `json:"@type"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	URL              string        `json:"url"`
	MainEntityOfPage WebPage       `json:"mainEntityOfPage"`
	DatePublished    string        `json:"datePublished"`
	DateModified     string        `json:"dateModified"`
	WordCount        int           `json:"wordCount"`
	TimeRequired     string        `json:"timeRequired"`
	Author           Thing         `json:"author"`
	Publisher        Organization  `json:"publisher"`
	Image            string        `json:"image,omitempty"`
	Keywords         string        `json:"keywords,omitempty"`
	ArticleSection   string        `json:"articleSection"`
	Video            []VideoObject `json:"video,omitempty"`
}

// Input carries the canonical values the serializer already computed;
// nothing is derived here beyond joining keywords.
type Input struct {
	Headline      string
	Description   string
	CanonicalURL  string
	DatePublished string
	DateModified  string
	WordCount     int
	TimeRequired  string
	AuthorName    string
	SiteName      string
	SiteURL       string
	LogoURL       string
	HeroImage     string
	Tags          []string
	Videos        []VideoObject
}

// NewBlogPosting builds the JSON-LD payload from already-normalized fields.
func NewBlogPosting(in Input) BlogPosting {
	posting := BlogPosting{
		Context:          "https://schema.org",
		Type:             "BlogPosting",
		Headline:         in.Headline,
		Description:      in.Description,
		URL:              in.CanonicalURL,
		MainEntityOfPage: WebPage{Type: "WebPage", ID: in.CanonicalURL},
		DatePublished:    in.DatePublished,
		DateModified:     in.DateModified,
		WordCount:        in.WordCount,
		TimeRequired:     in.TimeRequired,
		Author:           Thing{Type: "Person", Name: in.AuthorName, URL: in.SiteURL},
		Publisher: Organization{
			Type: "Organization",
			Name: in.SiteName,
			URL:  in.SiteURL,
		},
		Image:          in.HeroImage,
		Keywords:       strings.Join(in.Tags, ", "),
		ArticleSection: "Development",
		Video:          in.Videos,
	}

	if in.LogoURL != "" {
		posting.Publisher.Logo = &ImageObject{Type: "ImageObject", URL: in.LogoURL}
	}
	return posting
}
