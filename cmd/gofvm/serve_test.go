package main

import (
	"testing"

	"gofvm/store"

	"github.com/stretchr/testify/require"
)

func TestServeReleasesStoreWhenListenFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GOFVM_STORE_PATH", dir)
	t.Setenv("GOFVM_LISTEN", "not an address")

	rootCmd.SetArgs([]string{"serve"})
	require.Error(t, rootCmd.Execute())

	// The store directory is locked while it is open.
	s, err := store.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
