/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const resolveConfig = `
backend: cosmos
cosmos:
  endpoint: https://localhost:8081/
defaultThroughput:
  mode: autoscale
  requestUnits: 4000
items:
  - type: shop.Order
    container: orders
    partitionKey: /customerId
    uniqueKeys:
      - [/number]
    timeToLive: 30d
    sync: true
  - type: shop.Note
`

func TestResolveCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(path, []byte(resolveConfig), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"resolve", "--config", path, "--env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, rootCmd.Execute())

	var items []resolvedItem
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 2)

	assert.Equal(t, resolvedItem{
		Type:         "shop.Order",
		Container:    "orders",
		PartitionKey: "/customerId",
		UniqueKeys:   [][]string{{"/number"}},
		TimeToLive:   30 * 24 * 60 * 60,
		Throughput:   "autoscale(4000)",
		Sync:         true,
	}, items[0])

	assert.Equal(t, "shop.Note", items[1].Type)
	assert.Equal(t, "items", items[1].Container)
	assert.Equal(t, "/id", items[1].PartitionKey)
	assert.Equal(t, -1, items[1].TimeToLive)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "itemstore version")
}
