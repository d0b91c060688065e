package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogAsTextAcceptsPrintableAndTab(t *testing.T) {
	require.True(t, logAsText("hello\tworld\n"))
}

func TestLogAsTextRejectsBinary(t *testing.T) {
	require.False(t, logAsText(string([]byte{0x00, 0x01, 0xff})))
}

func TestHexU32Formatting(t *testing.T) {
	require.Equal(t, "000012ab", HexU32(0x12ab).String())
}
