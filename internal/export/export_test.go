package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"standup/internal/export"
	"standup/internal/notes"
)

func TestCSVSortsAscendingAndEscapes(t *testing.T) {
	list := []notes.DailyNote{
		{Date: "2024-03-07", TaskCategory: "Testing", TaskDescription: "Smoke testing", TaskSummary: `Ran "smoke" suite, all green`},
		{Date: "2024-03-05T10:00:00.000Z", TaskCategory: "Development", TaskDescription: "Bug Fixing", TaskSummary: "line one\nline two"},
		{Date: "2024-03-06"},
	}

	got := export.CSV(list)
	want := strings.Join([]string{
		"Date,Task Category,Task Description,Task Summary",
		"2024-03-05,Development,Bug Fixing,\"line one\nline two\"",
		"2024-03-06,,,",
		`2024-03-07,Testing,Smoke testing,"Ran ""smoke"" suite, all green"`,
	}, "\n")
	assert.Equal(t, want, got)
	assert.False(t, strings.HasSuffix(got, "\n"))

	records, err := csv.NewReader(strings.NewReader(got)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, `Ran "smoke" suite, all green`, records[3][3])
	assert.Equal(t, "line one\nline two", records[1][3])
}

func TestCSVLeavesInputOrderUntouched(t *testing.T) {
	list := []notes.DailyNote{{Date: "2024-03-02"}, {Date: "2024-03-01"}}
	_ = export.CSV(list)
	assert.Equal(t, "2024-03-02", list[0].Date)
}

func TestCSVEmptyHasOnlyHeader(t *testing.T) {
	assert.Equal(t, "Date,Task Category,Task Description,Task Summary", export.CSV(nil))
}

func TestCSVKeepsLeadingSpaceUnquoted(t *testing.T) {
	got := export.CSV([]notes.DailyNote{{Date: "2024-03-01", TaskSummary: " padded"}})
	assert.True(t, strings.HasSuffix(got, ",,, padded"))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, []notes.DailyNote{{Date: "2024-03-01", TaskCategory: "Other"}}))
	assert.Equal(t, "Date,Task Category,Task Description,Task Summary\n2024-03-01,Other,,", buf.String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "standup-tasks-2024-03.csv", export.Filename(2024, time.March))
	assert.Equal(t, "standup-tasks-all.csv", export.Filename(0, 0))
}
