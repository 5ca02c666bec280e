package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorgonia/arbiter/layer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definition = `name: head
dropout:
  type: continuous
  min: 0
  max: 0.5
poolingDimensions:
  type: fixed
  value: [2, 3]
collapseDimensions:
  type: boolean
poolingType:
  type: discrete
  values: [AVG, MAX, PNORM]
pNorm:
  type: integer
  min: 1
  max: 4
`

func writeDefinition(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "head.yaml")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o644))
	return path
}

func TestDescribe(t *testing.T) {
	path := writeDefinition(t)
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"describe", "-space", path}, &out))

	s := out.String()
	assert.Contains(t, s, "space:\tGlobalPoolingSpace(\"head\")\n")
	assert.Contains(t, s, "leaves:\t5\n")
	assert.Contains(t, s, "vector:\t4\n")
	assert.Contains(t, s, "boolean\t[1]\n")

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"describe", "-space", path, "-dot"}, &out))
	assert.Contains(t, out.String(), "digraph")
}

func sample(t *testing.T, path string, seed string) []layer.GlobalPooling {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"sample", "-space", path, "-n", "8", "-seed", seed}, &out))

	var retVal []layer.GlobalPooling
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var l layer.GlobalPooling
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), sc.Text())
		retVal = append(retVal, l)
	}
	return retVal
}

func TestSample(t *testing.T) {
	path := writeDefinition(t)
	first := sample(t, path, "7")
	require.Len(t, first, 8)
	for _, l := range first {
		assert.Equal(t, "head", l.Name())
		assert.Equal(t, []int{2, 3}, l.PoolingDimensions())
		assert.NotEqual(t, layer.Sum, l.PoolingType())
		assert.True(t, l.PNorm() >= 1 && l.PNorm() <= 4)
		assert.True(t, l.Dropout() >= 0 && l.Dropout() <= 0.5)
	}
	assert.Equal(t, first, sample(t, path, "7"))
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := writeDefinition(t)
	db := filepath.Join(t.TempDir(), "arbiter.db")
	storeArgs := []string{"-store", "sqlite", "-db", db}

	var out bytes.Buffer
	require.NoError(t, run(ctx, append([]string{"save", "-space", path, "-name", "head"}, storeArgs...), &out))
	assert.Equal(t, "saved head\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, append([]string{"list"}, storeArgs...), &out))
	assert.Equal(t, "head\n", out.String())

	out.Reset()
	require.NoError(t, run(ctx, append([]string{"load", "-name", "head", "-format", "json"}, storeArgs...), &out))
	loaded := filepath.Join(t.TempDir(), "loaded.json")
	require.NoError(t, os.WriteFile(loaded, out.Bytes(), 0o644))
	assert.Equal(t, sample(t, path, "3"), sample(t, loaded, "3"))

	out.Reset()
	require.NoError(t, run(ctx, append([]string{"delete", "-name", "head"}, storeArgs...), &out))
	err := run(ctx, append([]string{"load", "-name", "head"}, storeArgs...), &out)
	assert.Error(t, err)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	assert.Error(t, run(ctx, nil, &out))
	assert.Error(t, run(ctx, []string{"train"}, &out))
	assert.Error(t, run(ctx, []string{"describe"}, &out))
	assert.Error(t, run(ctx, []string{"describe", "-space", "missing.yaml"}, &out))
	assert.Error(t, run(ctx, []string{"sample", "-space", writeDefinition(t), "-n", "-1"}, &out))
	assert.Error(t, run(ctx, []string{"save", "-space", writeDefinition(t), "-store", "etcd"}, &out))
	assert.Error(t, run(ctx, []string{"save", "-space", writeDefinition(t), "-name", ""}, &out))
}
