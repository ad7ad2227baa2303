// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package feed renders each configured syndication channel into Atom
// or RSS XML. Grounded on astrophena-site's buildFeed (_examples/
// astrophena-site/site.go), generalized from a single hardcoded
// feed.xml into Config.Feeds' name/type/path list.
package feed

import (
	"sort"
	"time"

	"github.com/gorilla/feeds"

	"go.weft.dev/weft/internal/collate"
	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/werr"
)

// Generate renders every cfg.Feeds entry against info's collated
// pages, keyed by Feed.Path so a caller can write each under an
// output root.
func Generate(cfg *config.Config, info *collate.CollateInfo, baseURL string) (map[string]string, error) {
	out := make(map[string]string, len(cfg.Feeds))
	for _, fc := range cfg.Feeds {
		xml, err := render(cfg, fc, info, baseURL)
		if err != nil {
			return nil, err
		}
		out[fc.Path] = xml
	}
	return out, nil
}

func render(cfg *config.Config, fc config.Feed, info *collate.CollateInfo, baseURL string) (string, error) {
	f := &feeds.Feed{
		Title:   cfg.Title,
		Link:    &feeds.Link{Href: baseURL + "/"},
		Author:  &feeds.Author{Name: cfg.Author},
		Created: time.Now(),
	}

	var pages []*content.Page
	info.Pages.Range(func(src string, p *content.Page) {
		if p.Type != "post" || p.Draft {
			return
		}
		pages = append(pages, p)
	})
	sort.Slice(pages, func(i, j int) bool {
		di, dj := pages[i].Date, pages[j].Date
		if di == nil || dj == nil {
			return pages[i].File.Source < pages[j].File.Source
		}
		return di.After(*dj)
	})

	for _, p := range pages {
		item := &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: baseURL + p.Href},
			Author:      f.Author,
			Description: p.Description,
			Content:     p.Content,
		}
		if p.Date != nil {
			item.Created = *p.Date
		}
		f.Items = append(f.Items, item)
	}

	switch fc.Type {
	case "rss":
		out, err := f.ToRss()
		if err != nil {
			return "", werr.New(werr.Render, "feed", fc.Name, "to-rss", err)
		}
		return out, nil
	default:
		out, err := f.ToAtom()
		if err != nil {
			return "", werr.New(werr.Render, "feed", fc.Name, "to-atom", err)
		}
		return out, nil
	}
}
