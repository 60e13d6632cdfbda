package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the CLI offline against a temporary cache.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "autotokenizer.yaml")
	cfg := "hub:\n  cacheDir: " + t.TempDir() + "\n  offline: true\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func bertDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tokenizer_config.json"),
		[]byte(`{"tokenizer_class": "BertTokenizer", "unk_token": "[UNK]"}`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vocab.txt"),
		[]byte("[PAD]\n[UNK]\n[CLS]\n[SEP]\nhello\nworld\n"), 0o600))
	return dir
}

func TestResolveCmd_DryRun(t *testing.T) {
	out, err := run(t, "resolve", bertDir(t), "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "BertTokenizer")
	assert.Contains(t, out, "tokenizer_config")
	assert.NotContains(t, out, "vocab size")
}

func TestResolveCmd_Builtin(t *testing.T) {
	out, err := run(t, "-o", "json", "resolve", "Qwen/Qwen2-0.5B", "--dry-run")
	require.NoError(t, err)

	var res resolveResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "builtin", res.Strategy)
	assert.Equal(t, "chatml", res.ChatTemplate)
}

func TestResolveCmd_LoadAndEncode(t *testing.T) {
	out, err := run(t, "-o", "yaml", "resolve", bertDir(t), "--encode", "Hello world")
	require.NoError(t, err)

	var res resolveResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "BertTokenizer", res.Class)
	assert.Equal(t, 6, res.VocabSize)
	assert.Equal(t, []int32{4, 5}, res.Tokens)
}

func TestResolveCmd_Ambiguous(t *testing.T) {
	_, err := run(t, "resolve", "acme/unknown-model", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/unknown-model")
}

func TestListCmd(t *testing.T) {
	out, err := run(t, "list", "pretrained", "bert-base-multilingual")
	require.NoError(t, err)
	assert.Contains(t, out, "bert-base-multilingual-cased")
	assert.Contains(t, out, "bert-base-multilingual-uncased")
	assert.Equal(t, 3, strings.Count(out, "\n"), "header and two rows")

	out, err = run(t, "-o", "json", "list", "architectures")
	require.NoError(t, err)
	var archs []archRow
	require.NoError(t, json.Unmarshal([]byte(out), &archs))
	require.NotEmpty(t, archs)
	assert.Equal(t, "albert", archs[0].Arch)

	out, err = run(t, "list", "classes")
	require.NoError(t, err)
	assert.Contains(t, out, "ErnieTokenizer")
}

func TestConfigCmd_RedactsToken(t *testing.T) {
	t.Setenv("AUTOTOKENIZER_HUB_TOKEN", "hf_secret")

	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "hf_secret")
}

func TestVerifyCmd(t *testing.T) {
	out, err := run(t, "verify")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "autotokenizer dev\n", out)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "-o", "xml", "version")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestMetricsFlag(t *testing.T) {
	out, err := run(t, "resolve", "t5-small", "--dry-run", "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "T5Tokenizer")
	assert.Contains(t, out, "autotokenizer_tokenizer_resolutions_total")
	assert.Contains(t, out, "outcome=success,strategy=builtin")
	assert.Contains(t, out, "autotokenizer_tokenizer_resolution_duration_seconds")

	out, err = run(t, "resolve", "t5-small", "--dry-run")
	require.NoError(t, err)
	assert.NotContains(t, out, "tokenizer_resolutions_total")
}
