package nip11

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSupportedNIP(t *testing.T) {
	info := RelayInformationDocument{SupportedNIPs: []any{1, 11}}

	info.AddSupportedNIP(45)
	info.AddSupportedNIP(9)
	info.AddSupportedNIP(11)

	require.Equal(t, []any{1, 9, 11, 45}, info.SupportedNIPs)
}

func TestCloneDoesNotShareNIPs(t *testing.T) {
	original := RelayInformationDocument{
		Name:          "test",
		SupportedNIPs: []any{1, 11},
		Limitation:    &RelayLimitationDocument{MaxMessageLength: 1000},
	}

	clone := original.Clone()
	clone.AddSupportedNIP(9)
	clone.Limitation.MaxMessageLength = 5

	require.Equal(t, []any{1, 11}, original.SupportedNIPs)
	require.Equal(t, []any{1, 9, 11}, clone.SupportedNIPs)
	require.Equal(t, 1000, original.Limitation.MaxMessageLength)
	require.Equal(t, "test", clone.Name)
}
