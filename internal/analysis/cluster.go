package analysis

import "github.com/prabhakaran-jm/mistake-gravity-index/internal/model"

// Cluster groups sorted kill events into fight clusters with a single
// left-to-right scan. A kill joins the current cluster while its gap to the
// *previous* kill — not to the cluster start — is within the window, so a
// densely packed fight can span far longer than one window. A cluster of one
// isolated kill is valid.
func Cluster(kills []model.Event, window float64) []*model.FightCluster {
	if len(kills) == 0 {
		return nil
	}

	var clusters []*model.FightCluster
	current := &model.FightCluster{Kills: []model.Event{kills[0]}}
	for _, k := range kills[1:] {
		prev := current.Kills[len(current.Kills)-1]
		if k.Time-prev.Time <= window {
			current.Kills = append(current.Kills, k)
			continue
		}
		clusters = append(clusters, current)
		current = &model.FightCluster{Kills: []model.Event{k}}
	}
	return append(clusters, current)
}
