package junctioncast

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlab/junctioncast/models"
	"github.com/trafficlab/junctioncast/timedataset"
)

func TestWriteReport(t *testing.T) {
	series := map[timedataset.Junction]*timedataset.TimeDataset{
		1: generateTraffic(t, 240, 30, 12),
		2: generateTraffic(t, 240, 12, 5),
	}
	res, err := New(nil).Run(series)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, res.WriteReport(path, models.DefaultNaivePeriod))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
	assert.Contains(t, string(content), "junction_1 hourly vehicles")
	assert.Contains(t, string(content), "RMSE by junction and method")
}

func TestRunFile(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("ID,DateTime,Junction,Vehicles\n")
	start := time.Date(2015, 11, 1, 0, 0, 0, 0, time.UTC)
	for _, junction := range []int{1, 2} {
		td := generateTraffic(t, 240, 25, 10)
		for i := 0; i < td.Len(); i++ {
			fmt.Fprintf(&sb, "%d,%s,%d,%d\n",
				i, start.Add(time.Duration(i)*time.Hour).Format("2006-01-02 15:04:05"),
				junction, int(td.Y[i]))
		}
	}

	path := filepath.Join(t.TempDir(), "traffic.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))

	res, err := New(nil).RunFile(path)
	require.NoError(t, err)
	assert.Equal(t, 480, res.Stats.Kept)
	assert.Len(t, res.Table, 2*len(models.Methods()))
}

func TestRunFileMissing(t *testing.T) {
	_, err := New(nil).RunFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
