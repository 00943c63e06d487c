package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/keno-analytics/internal/generator"
)

func TestParseNumbers(t *testing.T) {
	numbers, err := parseNumbers("3, 17,40")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 17, 40}, numbers)

	for _, bad := range []string{"", "0", "41", "a,b", "5,5"} {
		_, err := parseNumbers(bad)
		assert.Error(t, err, bad)
	}
}

func TestApplyOptionOverrides(t *testing.T) {
	base := generator.Config{generator.KeySampleSize: 50}
	opts, err := applyOptionOverrides(base, []string{"sample_size=20", " shape = plus "})
	require.NoError(t, err)

	assert.Equal(t, 20, opts.Int(generator.KeySampleSize, 0))
	assert.Equal(t, "plus", opts.String(generator.KeyShape, ""))
	assert.Equal(t, 50, base.Int(generator.KeySampleSize, 0))
	assert.Equal(t, 20, opts[generator.KeySampleSize], "numeric overrides are stored as numbers")

	fromFlags, err := applyOptionOverrides(nil, []string{"sample_size=50"})
	require.NoError(t, err)
	assert.Equal(t, string(base.Canonical()), string(fromFlags.Canonical()))

	_, err = applyOptionOverrides(base, []string{"novalue"})
	assert.Error(t, err)
}

func TestPredictCommandFromHistoryFile(t *testing.T) {
	dir := t.TempDir()
	historyPath := filepath.Join(dir, "history.json")
	var rounds strings.Builder
	rounds.WriteString("[")
	for i := 0; i < 5; i++ {
		if i > 0 {
			rounds.WriteString(",")
		}
		rounds.WriteString(`{"drawn":[1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20],"selected":[1,2],"amount":"1","payout":"0","time":1700000000000}`)
	}
	rounds.WriteString("]")
	require.NoError(t, os.WriteFile(historyPath, []byte(rounds.String()), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"predict", "--config", filepath.Join(dir, "missing.yaml"),
		"--history", historyPath, "--method", "frequency", "--count", "3"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Method: frequency (5 rounds of history)")
	assert.Contains(t, out.String(), "Numbers: 1 2 3")
}
