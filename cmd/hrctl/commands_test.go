package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Usage(t *testing.T) {
	var stderr bytes.Buffer

	_, err := parse(nil, &stderr)
	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, stderr.String(), "rebuild-attendance")

	stderr.Reset()
	_, err = parse([]string{"frobnicate"}, &stderr)
	assert.EqualError(t, err, `unknown command "frobnicate"`)
	assert.Contains(t, stderr.String(), "usage: hrctl")
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "migrate", args: []string{"migrate"}},
		{name: "sync all", args: []string{"sync-devices"}},
		{name: "sync one", args: []string{"sync-devices", "-device", "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"}},
		{name: "sync bad id", args: []string{"sync-devices", "-device", "7"}, wantErr: `invalid -device "7"`},
		{name: "cleanup dry run", args: []string{"cleanup-duplicates", "-dry-run"}},
		{name: "assign", args: []string{"assign-biometric-ids", "-start", "2001", "-overwrite"}},
		{name: "assign bad office", args: []string{"assign-biometric-ids", "-office", "pune"}, wantErr: "invalid office_id"},
		{name: "seed", args: []string{"seed-templates", "-force"}},
		{name: "backfill yesterday", args: []string{"backfill-absences"}},
		{name: "backfill date", args: []string{"backfill-absences", "-date", "2024-03-01"}},
		{name: "backfill bad date", args: []string{"backfill-absences", "-date", "01/03/2024"}, wantErr: "invalid -date"},
		{name: "salaries", args: []string{"calculate-salaries", "-month", "2024-02"}},
		{name: "salaries without month", args: []string{"calculate-salaries"}, wantErr: "-month is required"},
		{name: "rebuild", args: []string{"rebuild-attendance", "-from", "2024-03-01", "-to", "2024-03-31"}},
		{name: "rebuild reversed", args: []string{"rebuild-attendance", "-from", "2024-03-31", "-to", "2024-03-01"}, wantErr: "is before"},
		{name: "rebuild too long", args: []string{"rebuild-attendance", "-from", "2024-01-01", "-to", "2024-12-31"}, wantErr: "longer than"},
		{name: "unknown flag", args: []string{"migrate", "-force"}, wantErr: "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			run, err := parse(tt.args, &stderr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, run)
		})
	}
}
