package web

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapEntry struct {
	Path       string
	ChangeFreq string
	Priority   string
}

// canonicalPages are listed once per locale
var canonicalPages = []sitemapEntry{
	{Path: "/", ChangeFreq: "daily", Priority: "1.0"},
	{Path: "/services", ChangeFreq: "weekly", Priority: "0.8"},
	{Path: "/blog", ChangeFreq: "daily", Priority: "0.8"},
	{Path: "/portfolio", ChangeFreq: "monthly", Priority: "0.7"},
	{Path: "/careers", ChangeFreq: "weekly", Priority: "0.7"},
	{Path: "/careers/jobs", ChangeFreq: "weekly", Priority: "0.6"},
	{Path: "/contact", ChangeFreq: "yearly", Priority: "0.5"},
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// entries lists the canonical pages followed by every published detail page
func (h *Handler) entries(ctx context.Context) []sitemapEntry {
	out := make([]sitemapEntry, 0, len(canonicalPages)+16)
	out = append(out, canonicalPages...)

	for _, svc := range h.content.Catalog.Services(ctx) {
		out = append(out, sitemapEntry{Path: "/services/" + svc.Slug, ChangeFreq: "monthly", Priority: "0.6"})
	}
	for _, post := range h.content.Catalog.Blog(ctx) {
		out = append(out, sitemapEntry{Path: "/blog/" + post.Slug, ChangeFreq: "monthly", Priority: "0.6"})
	}
	for _, career := range h.content.Catalog.Careers(ctx, "") {
		out = append(out, sitemapEntry{Path: "/careers/" + career.Slug, ChangeFreq: "weekly", Priority: "0.5"})
	}
	return out
}

// WriteSitemap writes the sitemap XML for every locale to w
func (h *Handler) WriteSitemap(ctx context.Context, w io.Writer) error {
	base := strings.TrimSuffix(h.opts.BaseURL, "/")
	entries := h.entries(ctx)

	set := urlSet{Xmlns: sitemapNS}
	for _, loc := range h.locales.Locales() {
		for _, e := range entries {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        base + localizedPath(loc, e.Path),
				ChangeFreq: e.ChangeFreq,
				Priority:   e.Priority,
			})
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("failed to encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (h *Handler) handleSitemap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if err := h.WriteSitemap(r.Context(), w); err != nil {
		h.logger.Error("failed to write sitemap", "error", err)
	}
}

func (h *Handler) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "User-agent: *\nAllow: /\nDisallow: /admin\nDisallow: /api\n\nSitemap: %s/sitemap.xml\n",
		strings.TrimSuffix(h.opts.BaseURL, "/"))
}
