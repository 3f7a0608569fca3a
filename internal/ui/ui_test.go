package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitColorsRespectsNoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	InitColors(false)
	require.False(t, colorsEnabled)
}

func TestInitColorsExplicitFlagWins(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	InitColors(true)
	require.False(t, colorsEnabled)
}

func TestBarAddAndFinishDoNotPanic(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf, 10, "indexing")
	bar.Add(3)
	bar.Finish()
}

func TestNilBarIsSafe(t *testing.T) {
	var bar *Bar
	bar.Add(1)
	bar.Finish()
}
