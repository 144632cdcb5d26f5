// Package store implements the target and correlation persistence
// contracts on top of the graph driver. Targets are nodes carrying their
// flattened collateral as list properties; correlations are edges between
// them.
package store

import (
	"github.com/skeinhq/skein/internal/driver"
)

type GraphStore struct {
	Driver driver.GraphDriver
}

func NewGraphStore(d driver.GraphDriver) *GraphStore {
	return &GraphStore{Driver: d}
}
