package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootListConfigs(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--list-configs"})
	t.Cleanup(func() {
		listConfigs = false
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "s2t")
	assert.Contains(t, out.String(), "hk2s")
}

func TestRootFlagDefaults(t *testing.T) {
	f := rootCmd.Flags()

	config, err := f.GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "s2t", config)

	output, err := f.GetString("output")
	require.NoError(t, err)
	assert.Equal(t, "out", output)

	sanitize, err := f.GetBool("sanitize")
	require.NoError(t, err)
	assert.True(t, sanitize)

	onError, err := f.GetString("on-error")
	require.NoError(t, err)
	assert.Equal(t, "continue", onError)
}
