package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCalcFromFlags(t *testing.T) {
	out, err := execute(t, "calc", "--quantity", "10", "--tshirt-cost", "1000", "--silkscreen", "500")
	require.NoError(t, err)
	assert.Equal(t, "labor unit price: 50\nsales unit price: 150\n", out)
}

func TestCalcAllBroughtIn(t *testing.T) {
	out, err := execute(t, "calc", "--quantity", "5", "--bring-in", "5", "--setup", "100")
	require.NoError(t, err)
	assert.Equal(t, "labor unit price: 20\nsales unit price: 0\n", out)
}

func TestCalcFromYAMLAndJSONFiles(t *testing.T) {
	yamlPath := writeFile(t, "group.yaml", "quantity: 3\ndtfPrintCost: 10\n")
	out, err := execute(t, "calc", "--file", yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "labor unit price: 3\nsales unit price: 3\n", out)

	jsonPath := writeFile(t, "group.json", `{"quantity": 10, "bringInQuantity": 0, "tshirtCost": 1000, "silkscreenPrintCost": 500}`)
	out, err = execute(t, "calc", "-f", jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "labor unit price: 50\nsales unit price: 150\n", out)
}

func TestCalcRejectsFileCombinedWithGroupFlags(t *testing.T) {
	path := writeFile(t, "group.yaml", "quantity: 10\n")

	for _, flag := range []string{"--tshirt-cost", "--silkscreen", "--quantity"} {
		out, err := execute(t, "calc", "--file", path, flag, "1000")
		require.Error(t, err, "flag %s", flag)
		assert.Contains(t, err.Error(), flag)
		assert.NotContains(t, out, "unit price")
	}
}

func TestCalcRejectsInvalidGroup(t *testing.T) {
	_, err := execute(t, "calc", "--quantity", "2", "--bring-in", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bringInQuantity")
}

func TestSummarize(t *testing.T) {
	path := writeFile(t, "order.yaml", `
title: Club tees
groups:
  - name: front
    quantity: 10
    tshirtCost: 1000
    silkscreenPrintCost: 500
  - name: members
    quantity: 5
    bringInQuantity: 5
    setupCost: 100
`)

	out, err := execute(t, "summarize", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Club tees")
	assert.Contains(t, out, "front")
	assert.Contains(t, out, "members")
	assert.Contains(t, out, "subtotal: 1600")
}

func TestSummarizeRequiresGroups(t *testing.T) {
	path := writeFile(t, "empty.yaml", "title: nothing\n")
	_, err := execute(t, "summarize", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no groups")
}

func TestSummarizeRequiresFileFlag(t *testing.T) {
	_, err := execute(t, "summarize")
	require.Error(t, err)
}
