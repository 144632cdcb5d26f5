// Package network finds clusters of case targets linked through stored
// correlations.
package network

import (
	"github.com/skeinhq/skein/internal/core/model"
)

// Detector groups targets into linked networks given the case's
// correlation edges. Singletons are not networks; every returned cluster
// has at least two targets.
type Detector interface {
	Detect(targets []model.Target, correlations []model.Correlation) ([][]model.Target, error)
}

// SimpleDetector clusters by plain connectivity: every connected
// component of the correlation graph is one network.
type SimpleDetector struct{}

func NewSimpleDetector() Detector {
	return NewLabelPropagationDetector()
}

func (d *SimpleDetector) Detect(targets []model.Target, correlations []model.Correlation) ([][]model.Target, error) {
	targetMap := make(map[string]model.Target)
	adj := make(map[string][]string)

	for _, t := range targets {
		targetMap[t.UUID] = t
	}

	for _, c := range correlations {
		if _, ok := targetMap[c.TargetAUUID]; !ok {
			continue
		}
		if _, ok := targetMap[c.TargetBUUID]; !ok {
			continue
		}
		adj[c.TargetAUUID] = append(adj[c.TargetAUUID], c.TargetBUUID)
		adj[c.TargetBUUID] = append(adj[c.TargetBUUID], c.TargetAUUID)
	}

	visited := make(map[string]bool)
	var networks [][]model.Target

	for _, t := range targets {
		if visited[t.UUID] {
			continue
		}
		var componentUUIDs []string
		d.dfs(t.UUID, adj, visited, &componentUUIDs)

		if len(componentUUIDs) >= 2 {
			var cluster []model.Target
			for _, uuid := range componentUUIDs {
				if member, ok := targetMap[uuid]; ok {
					cluster = append(cluster, member)
				}
			}
			networks = append(networks, cluster)
		}
	}

	return networks, nil
}

func (d *SimpleDetector) dfs(u string, adj map[string][]string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range adj[u] {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}
