package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()

	require.NoError(t, cmd.ParseFlags([]string{"--skip-sync", "--timeout", "45s"}))

	skip, err := cmd.Flags().GetBool("skip-sync")
	require.NoError(t, err)
	assert.True(t, skip)

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, timeout)
}

func TestRootCmdDefaults(t *testing.T) {
	cmd := newRootCmd()

	timeout, err := cmd.Flags().GetDuration("timeout")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, timeout)
}

func TestRootCmdSweepOnlyWithMemoryStore(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("TIME_ZONE", "UTC")
	t.Setenv("LOG_FORMAT", "text")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--skip-sync"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Health sweep finished")
	assert.NotContains(t, out.String(), "GitHub sync finished")
}

func TestRootCmdFailsOnBadConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("AUTH_ENABLED", "false")
	t.Setenv("TIME_ZONE", "UTC")

	cmd := newRootCmd()
	cmd.SilenceUsage = true
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SilenceUsage = true
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"extra"})

	assert.Error(t, cmd.Execute())
}
