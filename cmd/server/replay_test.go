package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func runReplay(t *testing.T, script string, extra ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"replay", path}, extra...))
	t.Cleanup(func() { printView = false })
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

const script = `
steps:
  - {op: patch, slice: companyInfo, fields: {ClientName: Acme}}
  - {op: add, collection: services, item: {ServiceId: 4}}
  - {op: add, collection: services, item: {ServiceId: 5}}
  - {op: soft-delete, collection: services, keys: ["4"]}
`

func TestReplayCommand(t *testing.T) {
	out := runReplay(t, script)
	assert.Equal(t, "Acme", gjson.Get(out, "ClientName").String())
	assert.Equal(t, int64(1), gjson.Get(out, "ClientService.#").Int())
	assert.True(t, gjson.Get(out, "IsActive").Bool())
}

func TestReplayCommand_View(t *testing.T) {
	out := runReplay(t, script, "--view")
	assert.Equal(t, int64(2), gjson.Get(out, "services.#").Int())
	assert.True(t, gjson.Get(out, `services.#(ServiceId==4).IsDeleted`).Bool())
}
