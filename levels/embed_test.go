package levels

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/ledgerunner/terrain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedLevel(t *testing.T) {
	lvl, err := LoadLevelFromFS("ledges")
	require.NoError(t, err)

	g, err := lvl.Grid()
	require.NoError(t, err)
	assert.Equal(t, 30, g.Width())
	assert.Equal(t, 15, g.Height())
	assert.Equal(t, 32.0, g.TileSize())

	// Bottom row is the floor; the low one-way shelf sits three rows up.
	for x := 0; x < g.Width(); x++ {
		assert.True(t, g.IsObstacle(x, 0), "floor at column %d", x)
	}
	assert.True(t, g.IsOneWay(3, 3))
	assert.True(t, g.IsEmpty(2, 1))

	spawn, err := lvl.Spawn(g)
	require.NoError(t, err)
	assert.Equal(t, cp.Vector{X: 80, Y: 32}, spawn)

	crates := lvl.Positions(g, "crate")
	require.Len(t, crates, 1)
	assert.Equal(t, cp.Vector{X: 400, Y: 32}, crates[0])
	assert.Empty(t, lvl.Positions(g, "door"))
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		json string
		want func(t *testing.T, lvl *Level)
		err  error
	}{
		{
			name: "block wins over one way",
			json: `{"width":2,"height":1,"layers":[[1,0],[1,1]],"layer_meta":[{"physics":true},{"physics":true,"one_way":true}]}`,
			want: func(t *testing.T, lvl *Level) {
				g, err := lvl.Grid()
				require.NoError(t, err)
				assert.Equal(t, terrain.Block, g.Tile(0, 0))
				assert.Equal(t, terrain.OneWay, g.Tile(1, 0))
			},
		},
		{
			name: "decorative layers are ignored",
			json: `{"width":2,"height":1,"layers":[[1,1]]}`,
			want: func(t *testing.T, lvl *Level) {
				g, err := lvl.Grid()
				require.NoError(t, err)
				assert.True(t, g.IsEmpty(0, 0))
				assert.True(t, g.IsEmpty(1, 0))
			},
		},
		{
			name: "top row first",
			json: `{"width":1,"height":2,"tile_size":16,"layers":[[1,0]],"layer_meta":[{"physics":true}],"entities":[{"type":"player","x":0,"y":1}]}`,
			want: func(t *testing.T, lvl *Level) {
				g, err := lvl.Grid()
				require.NoError(t, err)
				assert.True(t, g.IsObstacle(0, 1))
				assert.True(t, g.IsEmpty(0, 0))
				spawn, err := lvl.Spawn(g)
				require.NoError(t, err)
				assert.Equal(t, cp.Vector{X: 8, Y: 0}, spawn)
			},
		},
		{
			name: "no spawn",
			json: `{"width":1,"height":1,"layers":[]}`,
			want: func(t *testing.T, lvl *Level) {
				g, err := lvl.Grid()
				require.NoError(t, err)
				_, err = lvl.Spawn(g)
				require.ErrorIs(t, err, ErrNoSpawn)
			},
		},
		{
			name: "bad size",
			json: `{"width":0,"height":3}`,
			err:  terrain.ErrInvalidSize,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl, err := Decode(tt.name, []byte(tt.json))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			tt.want(t, lvl)
		})
	}
}
