package embeddings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizationPoints(t *testing.T) {
	tests := []struct {
		name    string
		vis     Visualization
		want    []Point
		wantErr bool
	}{
		{
			name: "zips coordinates with words in order",
			vis: Visualization{
				Coordinates: [][]float64{{1.5, -2}, {0, 3.25}},
				Words:       []string{"king", "queen"},
			},
			want: []Point{{X: 1.5, Y: -2, Word: "king"}, {X: 0, Y: 3.25, Word: "queen"}},
		},
		{
			name: "empty projection",
			vis:  Visualization{},
			want: []Point{},
		},
		{
			name: "extra components are ignored",
			vis: Visualization{
				Coordinates: [][]float64{{1, 2, 3}},
				Words:       []string{"man"},
			},
			want: []Point{{X: 1, Y: 2, Word: "man"}},
		},
		{
			name: "more coordinates than words",
			vis: Visualization{
				Coordinates: [][]float64{{1, 2}, {3, 4}},
				Words:       []string{"man"},
			},
			wantErr: true,
		},
		{
			name: "more words than coordinates",
			vis: Visualization{
				Coordinates: [][]float64{{1, 2}},
				Words:       []string{"man", "woman"},
			},
			wantErr: true,
		},
		{
			name: "short coordinate",
			vis: Visualization{
				Coordinates: [][]float64{{1}},
				Words:       []string{"man"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.vis.Points()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrRequestFailed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusError(t *testing.T) {
	err := error(&StatusError{StatusCode: 404, Detail: "Word not found in the embedding vocabulary"})

	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Equal(t, "embedding service returned 404: Word not found in the embedding vocabulary", err.Error())
	assert.Equal(t, "embedding service returned 500", (&StatusError{StatusCode: 500}).Error())

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.StatusCode)
}
