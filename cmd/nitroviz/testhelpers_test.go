// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/nitroviz/internal/dataset"
)

const npkCSV = `ID,parsed_date,treatment,N_Value,ST_Value
cit_kfa_n10_1,2022-10-05,N10,2.5,50
cit_kfa_n60_1,2022-10-05,N60,3.0,60
cit_kfa_n10_2,2023-03-09,N10,2.6,90
cit_kfa_n60_2,2023-03-09,N60,3.1,110
cit_kfa_n10_3,2023-10-09,N10,2.7,120
cit_kfa_n60_3,2023-10-09,N60,3.0,140
`

// newTestCmd redirects the shared rootCmd's output to fresh buffers.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd, stdout, stderr
}

// initProject creates a project directory holding the NPK CSV under data/
// and points the global config at an empty directory.
func initProject(t *testing.T) string {
	t.Helper()
	isolateGlobalConfig(t)

	dir := t.TempDir()
	var err error
	dir, err = filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	writeTestFile(t, dir, filepath.Join("data", dataset.NPKFile), npkCSV)
	return dir
}

// isolateGlobalConfig keeps the developer's own global config out of tests.
func isolateGlobalConfig(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// chdir switches to dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// writeTestFile creates a file (and any necessary parent directories) under dir.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
