package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/cloudx-io/silentauction/archive"
	"github.com/cloudx-io/silentauction/core"
)

func writeArchive(t *testing.T, tamper func(*archive.Archive)) string {
	t.Helper()
	closedAt := time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC)
	items := []core.Item{
		{ID: 1, Name: "Karaoke Mic", StartingPrice: core.Money(25), MaxBid: core.Money(80), CurrentBid: core.Money(30), HighestBidder: "Alice"},
	}
	bids := []core.BidRecord{core.NewBidRecord(1, "Alice", core.Money(30), closedAt.Add(-time.Minute))}

	a := archive.FromResult(core.SummarizeAuction(items, bids, closedAt), "£")
	if tamper != nil {
		tamper(a)
	}
	path := filepath.Join(t.TempDir(), archive.FileName(closedAt))
	assert.NoError(t, archive.WriteFile(path, a))
	return path
}

func TestRun_Valid(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--archive", writeArchive(t, nil)}, &stdout, &stderr)

	check.Equal(t, 0, code)
	check.True(t, strings.Contains(stdout.String(), "VALIDATION: ✓ PASSED"))
	check.Equal(t, "", stderr.String())
}

func TestRun_Invalid(t *testing.T) {
	path := writeArchive(t, func(a *archive.Archive) {
		a.Items[0].HighestBidder = "Mallory"
	})
	var stdout, stderr bytes.Buffer
	code := run([]string{"--archive", path}, &stdout, &stderr)

	check.Equal(t, 1, code)
	check.True(t, strings.Contains(stdout.String(), "Final State Valid:     false"))
	check.True(t, strings.Contains(stdout.String(), "VALIDATION: ✗ FAILED"))
}

func TestRun_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--archive", writeArchive(t, nil), "--format", "json"}, &stdout, &stderr)
	assert.Equal(t, 0, code)

	var output map[string]any
	assert.NoError(t, json.Unmarshal(stdout.Bytes(), &output))
	check.Equal(t, true, output["valid"])
	check.Equal(t, true, output["ledger_hash_valid"])
}

func TestRun_InputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "missing archive flag", args: nil, want: 1},
		{name: "unknown flag", args: []string{"--bogus"}, want: 2},
		{name: "missing file", args: []string{"--archive", filepath.Join(t.TempDir(), "nope.cbor")}, want: 2},
		{name: "unknown format", args: []string{"--archive", "x.cbor", "--format", "xml"}, want: 2},
		{name: "help", args: []string{"--help"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			check.Equal(t, tt.want, run(tt.args, &stdout, &stderr))
		})
	}
}
