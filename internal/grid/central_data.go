package grid

import (
	"context"
	"strings"

	"github.com/prabhakaran-jm/mistake-gravity-index/internal/model"
)

// maxSeriesPages caps central-data pagination so a bad cursor cannot loop
// forever.
const maxSeriesPages = 50

// Title is one entry from the titles listing.
type Title struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Titles lists the esports titles the API key has access to.
func (c *CentralData) Titles(ctx context.Context) ([]Title, error) {
	var resp struct {
		Titles []Title `json:"titles"`
	}
	if err := c.query(ctx, titlesQuery, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Titles, nil
}

type seriesPage struct {
	AllSeries struct {
		Edges []struct {
			Node struct {
				ID                 string `json:"id"`
				StartTimeScheduled string `json:"startTimeScheduled"`
				Teams              []struct {
					BaseInfo struct {
						ID   string `json:"id"`
						Name string `json:"name"`
					} `json:"baseInfo"`
				} `json:"teams"`
				Tournament struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"tournament"`
				Title struct {
					ID            string `json:"id"`
					NameShortened string `json:"nameShortened"`
				} `json:"title"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo struct {
			EndCursor   string `json:"endCursor"`
			HasNextPage bool   `json:"hasNextPage"`
		} `json:"pageInfo"`
	} `json:"allSeries"`
}

// SeriesByTournament pages through every series of a tournament, including
// child tournaments. A non-empty teamFilter keeps only series where some team
// name contains it, case-insensitive.
func (c *CentralData) SeriesByTournament(ctx context.Context, tournamentID, teamFilter string) ([]model.SeriesInfo, error) {
	filter := strings.ToLower(strings.TrimSpace(teamFilter))

	var out []model.SeriesInfo
	after := ""
	for page := 0; page < maxSeriesPages; page++ {
		variables := map[string]any{"tournamentId": tournamentID}
		if after != "" {
			variables["after"] = after
		}

		var resp seriesPage
		if err := c.query(ctx, allSeriesByTournamentQuery, variables, &resp); err != nil {
			return nil, err
		}

		for _, edge := range resp.AllSeries.Edges {
			node := edge.Node
			teams := make([]string, 0, len(node.Teams))
			for _, t := range node.Teams {
				if name := strings.TrimSpace(t.BaseInfo.Name); name != "" {
					teams = append(teams, name)
				}
			}
			if filter != "" && !anyContains(teams, filter) {
				continue
			}
			out = append(out, model.SeriesInfo{
				ID:             node.ID,
				StartTime:      node.StartTimeScheduled,
				TournamentName: node.Tournament.Name,
				TitleShort:     node.Title.NameShortened,
				Teams:          teams,
			})
		}

		info := resp.AllSeries.PageInfo
		if !info.HasNextPage || info.EndCursor == "" {
			break
		}
		after = info.EndCursor
	}
	return out, nil
}

func anyContains(names []string, needle string) bool {
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), needle) {
			return true
		}
	}
	return false
}
