package input

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorDevicesSignalsOnNewNode(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := MonitorDevices(ctx, dir)
	require.NoError(t, err)

	touchFile(t, dir, "event7")

	select {
	case _, ok := <-changes:
		assert.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after creating a device node")
	}
}

func TestMonitorDevicesIgnoresOtherNodes(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := MonitorDevices(ctx, dir)
	require.NoError(t, err)

	touchFile(t, dir, "mouse0")
	touchFile(t, dir, "mice")

	select {
	case <-changes:
		t.Fatal("unrelated nodes must not trigger a signal")
	case <-time.After(2 * settlePeriod):
	}
}

func TestMonitorDevicesClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := MonitorDevices(ctx, dir)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after cancellation")
	}
}

func TestMonitorDevicesBadDirectory(t *testing.T) {
	_, err := MonitorDevices(context.Background(), "/definitely/not/a/dir")
	assert.Error(t, err)
}
