package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/bonuspoints/thelist/schema"
)

// Game is the subset of an IGDB game record used for display.
type Game struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	URL              string     `json:"url,omitempty"`
	Cover            *urlField  `json:"cover,omitempty"`
	FirstReleaseDate int64      `json:"first_release_date,omitempty"` // unix seconds
	Genres           []nameItem `json:"genres,omitempty"`
	GameEngines      []nameItem `json:"game_engines,omitempty"`
	Companies        []company  `json:"involved_companies,omitempty"`
	Platforms        []nameItem `json:"platforms,omitempty"`
	Rating           *float64   `json:"rating,omitempty"`
	AggregatedRating *float64   `json:"aggregated_rating,omitempty"`
	TotalRating      *float64   `json:"total_rating,omitempty"`
}

type urlField struct {
	URL string `json:"url"`
}

type nameItem struct {
	Name string `json:"name"`
}

type company struct {
	Company nameItem `json:"company"`
}

func names(items []nameItem) []string {
	var out []string
	for _, it := range items {
		if it.Name != "" {
			out = append(out, it.Name)
		}
	}
	return out
}

// Attributes converts the record to display attributes.
// User rating is IGDB's member rating and critic rating is its aggregated rating.
func (g Game) Attributes() schema.Attributes {
	attrs := schema.Attributes{
		ID:           strconv.FormatInt(g.ID, 10),
		DisplayName:  g.Name,
		CatalogRef:   g.URL,
		UserRating:   g.Rating,
		CriticRating: g.AggregatedRating,
		TotalRating:  g.TotalRating,
	}
	if g.Cover != nil {
		attrs.CoverImageRef = coverURL(g.Cover.URL)
	}
	if g.FirstReleaseDate != 0 {
		attrs.ReleaseDate = time.Unix(g.FirstReleaseDate, 0).UTC()
	}
	attrs.Genres = names(g.Genres)
	attrs.Engines = names(g.GameEngines)
	attrs.Platforms = names(g.Platforms)
	for _, c := range g.Companies {
		if c.Company.Name != "" {
			attrs.Companies = append(attrs.Companies, c.Company.Name)
		}
	}
	return attrs
}

// coverURL turns the protocol-relative thumbnail URL into an https URL of the 720p image.
func coverURL(raw string) string {
	if raw == "" {
		return ""
	}
	u := strings.Replace(raw, "t_thumb", "t_720p", 1)
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	return u
}
