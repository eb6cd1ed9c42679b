package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/libxslt-go/pkg/xslt"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTemp(t, "xsltgo.yaml", []byte(`
library:
  workers: 3
  register_extensions: true
parse:
  nonet: true
  big_lines: true
params:
  title: "O'Brien"
xpath_params:
  limit: "10"
log_level: debug
`))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Library.Workers)
	assert.True(t, cfg.Library.RegisterExtensions)
	assert.Equal(t, xslt.ParseOptions{NoNet: true, BigLines: true}, cfg.Parse)
	assert.Equal(t, ParamList{{Name: "title", Value: "O'Brien"}}, cfg.Params)
	assert.Equal(t, ParamList{{Name: "limit", Value: "10"}}, cfg.XPathParams)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, &FileConfig{}, cfg)
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeTemp(t, "bad.yaml", []byte("parse:\n  recovery: true\n"))
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsLogLevel(t *testing.T) {
	path := writeTemp(t, "bad.yaml", []byte("log_level: loud\n"))
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "log_level")
}

func TestLoadConfigAcceptsInfoLevel(t *testing.T) {
	path := writeTemp(t, "info.yaml", []byte("log_level: info\n"))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseParamFlags(t *testing.T) {
	params, err := ParseParamFlags([]string{"name=O'Brien", "expr=a=b"}, false)
	require.NoError(t, err)
	assert.Equal(t, []xslt.Param{
		{Name: "name", Value: `"O'Brien"`},
		{Name: "expr", Value: "'a=b'"},
	}, params)

	params, err = ParseParamFlags([]string{"n=count(//x)"}, true)
	require.NoError(t, err)
	assert.Equal(t, []xslt.Param{{Name: "n", Value: "count(//x)"}}, params)

	_, err = ParseParamFlags([]string{"novalue"}, false)
	require.Error(t, err)
	_, err = ParseParamFlags([]string{"=x"}, false)
	require.Error(t, err)
}

func TestParseOptionFlags(t *testing.T) {
	got, err := ParseOptionFlags(xslt.ParseOptions{NoNet: true}, []string{"recover", "huge"})
	require.NoError(t, err)
	assert.Equal(t, xslt.ParseOptions{NoNet: true, Recover: true, Huge: true}, got)

	_, err = ParseOptionFlags(xslt.ParseOptions{}, []string{"bogus"})
	assert.ErrorIs(t, err, xslt.ErrUnknownOption)
}

func TestLoadParamsFile(t *testing.T) {
	path := writeTemp(t, "params.yaml", []byte("zeta: last\nalpha: \"say \\\"hi\\\"\"\n"))
	params, err := LoadParamsFile(path)
	require.NoError(t, err)
	// Document order is kept.
	assert.Equal(t, []xslt.Param{
		{Name: "zeta", Value: "'last'"},
		{Name: "alpha", Value: `'say "hi"'`},
	}, params)
}

func TestLoadParamsFileRejectsList(t *testing.T) {
	path := writeTemp(t, "params.yaml", []byte("- a\n- b\n"))
	_, err := LoadParamsFile(path)
	require.ErrorContains(t, err, "mapping")
}

func TestCollectParamsPrecedence(t *testing.T) {
	paramsFile := writeTemp(t, "params.yaml", []byte("a: file\nb: file\n"))
	cfg := &FileConfig{
		Params:      ParamList{{Name: "a", Value: "config"}, {Name: "c", Value: "config"}},
		XPathParams: ParamList{{Name: "n", Value: "1+1"}},
	}
	opts := &TransformOptions{
		ParamsFile:  paramsFile,
		Params:      []string{"b=flag"},
		XPathParams: []string{"n=2"},
	}

	params, err := collectParams(cfg, opts)
	require.NoError(t, err)
	assert.Equal(t, []xslt.Param{
		{Name: "a", Value: "'file'"},
		{Name: "c", Value: "'config'"},
		{Name: "n", Value: "2"},
		{Name: "b", Value: "'flag'"},
	}, params)
}
