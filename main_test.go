package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncOptions(t *testing.T) {
	options, err := syncOptions(Args{DryRun: true})
	require.NoError(t, err)
	assert.True(t, options.DryRun)
	assert.True(t, options.Start.IsZero())

	options, err = syncOptions(Args{Start: "2022-06-01", End: "2022-06-15"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), options.Start)
	assert.Equal(t, time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC), options.End)
}

func TestSyncOptionsErrors(t *testing.T) {
	for name, args := range map[string]Args{
		"start only": {Start: "2022-06-01"},
		"end only":   {End: "2022-06-01"},
		"bad start":  {Start: "06/01/2022", End: "2022-06-15"},
		"end first":  {Start: "2022-06-15", End: "2022-06-01"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := syncOptions(args)
			assert.Error(t, err)
		})
	}
}
