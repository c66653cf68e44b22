package kdquery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNearestNeighbor(t *testing.T) {
	cloud := []Point3{
		{X: 0, Y: 0, Z: 0, Payload: 0},
		{X: 10, Y: 0, Z: 0, Payload: 1},
		{X: 0, Y: 10, Z: 0, Payload: 2},
		{X: 5, Y: 5, Z: 5, Payload: 3},
	}
	tree := NewTree(cloud)

	nearest, _ := tree.NearestNeighbor(Point3{X: 0.1, Y: 0.1, Z: 0.1})
	require.Equal(t, 0, nearest.Payload)

	nearest, _ = tree.NearestNeighbor(Point3{X: 9, Y: 1, Z: 0})
	require.Equal(t, 1, nearest.Payload)
}
