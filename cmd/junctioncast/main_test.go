package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlab/junctioncast"
	"github.com/trafficlab/junctioncast/evaluate"
	"github.com/trafficlab/junctioncast/models"
)

func TestPrintTable(t *testing.T) {
	res := &junctioncast.Results{
		Table: evaluate.Table{
			{
				Junction: 1,
				Method:   models.MethodMovingAverage,
				Scores:   &evaluate.Scores{MAE: 1.25, MSE: 2.5, RMSE: 1.581},
			},
			{
				Junction: 1,
				Method:   models.MethodSARIMA,
				Err:      "insufficient data to fit model",
			},
		},
	}

	var buf bytes.Buffer
	printTable(&buf, res)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t,
		[]string{"JUNCTION", "METHOD", "MAE", "MSE", "RMSE", "NOTE"},
		strings.Fields(lines[0]))
	assert.Equal(t,
		[]string{"1", "moving_average", "1.250", "2.500", "1.581"},
		strings.Fields(lines[1]))
	assert.Contains(t, lines[2], "sarima")
	assert.True(t, strings.HasSuffix(lines[2], "insufficient data to fit model"))
}
