package analysis

import "github.com/prabhakaran-jm/mistake-gravity-index/internal/model"

// direction is a killer-team → victim-team pair inside one cluster.
type direction struct {
	killer, victim string
}

// ResolveTrades walks every cluster and emits the deaths that were never
// traded back. A kill by team X on team Y is traded when the cluster also
// contains a kill by Y on X; matching is by count per directional pair, with
// earliest kills matched first. If X killed Y three times and Y answered
// twice, the latest X→Y kill is the one left untraded.
//
// The emitted deaths also carry the Unanswered flag: true when the victim's
// team got no kill of any kind in the cluster, reciprocal or not.
func ResolveTrades(clusters []*model.FightCluster) []model.UntradedDeath {
	var out []model.UntradedDeath
	for _, c := range clusters {
		counts := make(map[direction]int)
		killsByTeam := make(map[string]int)
		for _, k := range c.Kills {
			counts[direction{k.ActorTeam, k.VictimTeam}]++
			killsByTeam[k.ActorTeam]++
		}

		// Kills are time-ordered within the cluster, so consuming the
		// reciprocal budget in iteration order matches oldest-first.
		matched := make(map[direction]int)
		for _, k := range c.Kills {
			d := direction{k.ActorTeam, k.VictimTeam}
			reciprocal := counts[direction{k.VictimTeam, k.ActorTeam}]
			if matched[d] < reciprocal {
				matched[d]++
				continue
			}
			out = append(out, model.UntradedDeath{
				Kill:       k,
				Cluster:    c,
				Unanswered: killsByTeam[k.VictimTeam] == 0,
			})
		}
	}
	return out
}
