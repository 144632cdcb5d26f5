package network

import (
	"sort"

	"github.com/skeinhq/skein/internal/core/model"
)

// LabelPropagationDetector clusters the correlation graph with the label
// propagation algorithm, weighting each link by its confidence so strong
// correlations dominate when labels compete.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(targets []model.Target, correlations []model.Correlation) ([][]model.Target, error) {
	if len(targets) == 0 {
		return nil, nil
	}

	// Adjacency weighted by correlation confidence. Undirected; a repeat
	// pair accumulates weight.
	adj := make(map[string]map[string]int)
	targetMap := make(map[string]model.Target)

	for _, t := range targets {
		targetMap[t.UUID] = t
		adj[t.UUID] = make(map[string]int)
	}

	for _, c := range correlations {
		if _, ok := targetMap[c.TargetAUUID]; !ok {
			continue
		}
		if _, ok := targetMap[c.TargetBUUID]; !ok {
			continue
		}
		weight := c.Confidence
		if weight < 1 {
			weight = 1
		}
		adj[c.TargetAUUID][c.TargetBUUID] += weight
		adj[c.TargetBUUID][c.TargetAUUID] += weight
	}

	// Every target starts with its own label.
	labels := make(map[string]string)
	order := make([]string, len(targets))
	for i, t := range targets {
		labels[t.UUID] = t.UUID
		order[i] = t.UUID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changed := 0

		for _, u := range order {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelWeights := make(map[string]int)
			maxWeight := 0
			for v, w := range neighbors {
				label := labels[v]
				labelWeights[label] += w
				if labelWeights[label] > maxWeight {
					maxWeight = labelWeights[label]
				}
			}

			var candidates []string
			for label, w := range labelWeights {
				if w == maxWeight {
					candidates = append(candidates, label)
				}
			}

			// Lexicographically largest candidate keeps runs deterministic.
			sort.Strings(candidates)
			best := candidates[len(candidates)-1]

			if labels[u] != best {
				labels[u] = best
				changed++
			}
		}

		if changed == 0 {
			break
		}
	}

	clusters := make(map[string][]model.Target)
	for uuid, label := range labels {
		if t, ok := targetMap[uuid]; ok {
			clusters[label] = append(clusters[label], t)
		}
	}

	var networks [][]model.Target
	for _, cluster := range clusters {
		if len(cluster) >= 2 {
			sort.Slice(cluster, func(i, j int) bool { return cluster[i].UUID < cluster[j].UUID })
			networks = append(networks, cluster)
		}
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i][0].UUID < networks[j][0].UUID })

	return networks, nil
}
