package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/buddykit/internal/trace"
	"github.com/joshuapare/buddykit/internal/workload"
)

func TestStressCommand(t *testing.T) {
	for _, track := range []bool{false, true} {
		resetGlobals()
		jsonOut = true
		stressCfg = heapConfig{base: 0x40000, size: 1 << 16, orders: 10, trackFree: track}
		stressSeed, stressOps = 5, 800

		output, err := captureOutput(t, runStress)
		require.NoError(t, err, "track-free=%v", track)

		var report stressReport
		require.NoError(t, json.Unmarshal([]byte(output), &report))
		assert.True(t, report.Coalesced)
		assert.Equal(t, int64(5), report.Seed)
		assert.GreaterOrEqual(t, report.Ops, 800)
		assert.Positive(t, report.Splits)
		assert.Positive(t, report.Merges)
	}
}

func TestStressCommandText(t *testing.T) {
	resetGlobals()
	stressCfg = heapConfig{size: 1 << 14, orders: 8}
	stressSeed, stressOps, stressEvery = 9, 300, 10

	output, err := captureOutput(t, runStress)
	require.NoError(t, err)
	assert.Contains(t, output, "Seed 9:")
	assert.Contains(t, output, "splits:")
}

func TestStressCommandDump(t *testing.T) {
	resetGlobals()
	stressCfg = heapConfig{size: 1 << 14, orders: 8}
	stressSeed, stressOps, stressMaxSize = 4, 200, 512
	stressDump = filepath.Join(t.TempDir(), "stress.trace")

	_, err := captureOutput(t, runStress)
	require.NoError(t, err)

	f, err := os.Open(stressDump)
	require.NoError(t, err)
	defer f.Close()
	ops, err := trace.Parse(f)
	require.NoError(t, err)

	want := workload.Drain(workload.Generate(4, 200, 512))
	require.Len(t, ops, len(want))
	for i := range ops {
		ops[i].Line = 0
	}
	assert.Equal(t, want, ops)
}

func TestStressCommandRejectsUnknownProfile(t *testing.T) {
	resetGlobals()
	stressProfile = "block"
	_, err := captureOutput(t, runStress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown profile")
}
