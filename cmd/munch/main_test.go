package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), err
}

func TestRunConversions(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		input    string
		expected string
	}{
		{"json to repr", nil, `{"b": 1, "a": {"c": true}}`, "Munch(a=Munch(c=True), b=1)\n"},
		{"repr to json", []string{"-from", "repr", "-to", "json"}, `Munch(b=1, a=[1, None])`, `{"b":1,"a":[1,null]}` + "\n"},
		{"json to yaml", []string{"-to", "yaml"}, `{"b": 1, "a": {"c": "x"}}`, "b: 1\na:\n    c: x\n"},
		{"yaml to repr", []string{"-from", "yaml"}, "b: 1\na: [1, 2]\n", "Munch(a=[1, 2], b=1)\n"},
		{"json to indented json", []string{"-to", "json", "-indent", "2"}, `{"a": 1}`, "{\n  \"a\": 1\n}\n"},
		{"repr to indented repr", []string{"-from", "repr", "-indent", "2"}, `Munch(a=[1])`, "Munch(\n  a=[\n    1,\n  ],\n)\n"},
		{"repr list to json", []string{"-from", "repr", "-to", "json"}, `[1, "a"]`, `[1,"a"]` + "\n"},
		{"tagged yaml", []string{"-from", "repr", "-to", "yaml", "-tagged"}, `Munch(a=1)`, "!munch.Munch\na: 1\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := runCLI(t, tc.input, tc.args...)
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestRunReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"x": 1}`), 0o600))

	out, err := runCLI(t, "", path)
	require.NoError(t, err)
	require.Equal(t, "Munch(x=1)\n", out)

	_, err = runCLI(t, "", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "read file")
}

func TestRunVerbose(t *testing.T) {
	out, err := runCLI(t, `{"a": 1}`, "-v")
	require.NoError(t, err)
	require.Equal(t, "Munch(a=1)\n", out)
}

func TestRunErrors(t *testing.T) {
	testCases := []struct {
		name  string
		args  []string
		input string
		msg   string
	}{
		{"unknown input format", []string{"-from", "toml"}, "", `unknown input format "toml"`},
		{"unknown output format", []string{"-to", "xml"}, `{}`, `unknown output format "xml"`},
		{"too many arguments", []string{"a", "b"}, "", "expected at most one input file, got 2"},
		{"bad json", nil, `{"a": }`, "decoding JSON"},
		{"json root not a mapping", nil, `[1]`, "not a mapping"},
		{"bad repr", []string{"-from", "repr"}, `Munch(a=1`, "unterminated call to Munch"},
		{"negative indent", []string{"-from", "repr", "-indent", "-1"}, `Munch()`, "indent"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runCLI(t, tc.input, tc.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.msg)
		})
	}
}
