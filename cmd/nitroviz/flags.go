package main

import "github.com/spf13/pflag"

// resetFlag restores a flag to its default and clears Changed, so tests that
// share rootCmd start from a clean slate.
func resetFlag(f *pflag.Flag) {
	_ = f.Value.Set(f.DefValue)
	f.Changed = false
}
