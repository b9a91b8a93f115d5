//go:build e2e && unix

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZoomKeys(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartSeeded(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")
	require.True(t, tf.SeePlain("z16"), "Default zoom should be shown")

	tf.SendKeys(KeyZoomIn)
	require.True(t, tf.SeePlain("z17"), "+ should zoom in")
	tf.SendKeys("--")
	require.True(t, tf.SeePlain("z15"), "- should zoom out")
}

func TestClickOnMarkerShowsCard(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartSeeded(), "Failed to start app")
	require.True(t, tf.Ready(), "Should receive ready signal")

	// Aria stands on the map center of the 120x40 terminal: column 60,
	// row 19 of the map, which starts below the title line
	tf.Click(60, 20)
	require.True(t, tf.SeePlain("HP  30/40"), "Aria's card should be shown")
}
