package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MiniCatalog/internal/catalog"
)

type harness struct {
	t        *testing.T
	dataFile string
	baseArgs []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "products.json")
	return &harness{
		t:        t,
		dataFile: dataFile,
		baseArgs: []string{
			"--config", filepath.Join(dir, "absent.yaml"),
			"--file", dataFile,
			"--log-level", "error",
		},
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out bytes.Buffer
	err := Execute(context.Background(), append(append([]string{}, h.baseArgs...), args...), &out)
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "args=%v", args)
	return out
}

func decodeProduct(t *testing.T, raw string) catalog.Product {
	t.Helper()
	var p catalog.Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p), raw)
	return p
}

func addPen(h *harness) catalog.Product {
	h.t.Helper()
	out := h.mustRun("add",
		"--title", "Pen",
		"--description", "Blue pen",
		"--price", "1.5",
		"--thumbnail", "pen.png",
		"--code", "P001",
		"--stock", "10",
	)
	return decodeProduct(h.t, out)
}

func TestCLI_AddListGetDelete(t *testing.T) {
	h := newHarness(t)

	p := addPen(h)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "Pen", p.Title)
	assert.Equal(t, "1.5", p.Price.String())

	var products []catalog.Product
	require.NoError(t, json.Unmarshal([]byte(h.mustRun("list")), &products))
	require.Len(t, products, 1)

	got := decodeProduct(t, h.mustRun("get", "1"))
	assert.Equal(t, "P001", got.Code)

	_, err := h.run("add", "--title", "Other", "--description", "d", "--price", "2",
		"--thumbnail", "t.png", "--code", "P001", "--stock", "1")
	require.ErrorIs(t, err, catalog.ErrDuplicateCode)

	assert.Equal(t, "deleted 1\n", h.mustRun("delete", "1"))

	_, err = h.run("get", "1")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	_, err = h.run("delete", "1")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCLI_AddValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("add", "--title", "Pen", "--code", "P001")
	require.ErrorIs(t, err, catalog.ErrValidation)

	_, err = h.run("add", "--title", "Pen", "--description", "d", "--price", "cheap",
		"--thumbnail", "t.png", "--code", "P001", "--stock", "1")
	require.ErrorIs(t, err, catalog.ErrValidation)

	_, err = h.run("add", "--title", "Pen", "--description", "d", "--price", "1",
		"--thumbnail", "t.png", "--code", "P001", "--stock", "lots")
	require.ErrorIs(t, err, catalog.ErrValidation)
	assert.Contains(t, err.Error(), `stock "lots" is not a number`)

	_, err = os.Stat(h.dataFile)
	require.ErrorIs(t, err, os.ErrNotExist, "nothing was persisted")
}

func TestCLI_AddFromJSON(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "--json",
		`{"title":"Ink","description":"Black ink","price":4.2,"thumbnail":"ink.png","code":"I001","stock":3}`)
	p := decodeProduct(t, out)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "I001", p.Code)

	_, err := h.run("add", "--json", `{"id":7,"title":"Ink"}`)
	require.ErrorIs(t, err, catalog.ErrValidation)
}

func TestCLI_UpdateOnlyTouchesGivenFields(t *testing.T) {
	h := newHarness(t)
	orig := addPen(h)

	updated := decodeProduct(t, h.mustRun("update", "1", "--stock", "4", "--title", "Red pen"))
	assert.Equal(t, orig.ID, updated.ID)
	assert.Equal(t, "Red pen", updated.Title)
	assert.Equal(t, "4", updated.Stock.String())
	assert.Equal(t, orig.Description, updated.Description)
	assert.Equal(t, orig.Code, updated.Code)
	assert.True(t, orig.Price.Equal(updated.Price.Decimal))

	updated = decodeProduct(t, h.mustRun("update", "1", "--json", `{"price":2}`))
	assert.Equal(t, "2", updated.Price.String())
	assert.Equal(t, "Red pen", updated.Title)

	_, err := h.run("update", "1", "--json", `{"id":5}`)
	require.ErrorIs(t, err, catalog.ErrValidation)

	updated = decodeProduct(t, h.mustRun("update", "1", "--stock", "0.5"))
	assert.Equal(t, "0.5", updated.Stock.String())

	_, err = h.run("update", "9", "--stock", "1")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestCLI_NonIntegerIDIsNotFound(t *testing.T) {
	h := newHarness(t)
	addPen(h)

	for _, cmd := range []string{"get", "update", "delete"} {
		_, err := h.run(cmd, "1.5")
		require.ErrorIs(t, err, catalog.ErrNotFound, cmd)
	}
}

func TestCLI_Export(t *testing.T) {
	h := newHarness(t)
	addPen(h)

	yamlOut := h.mustRun("export", "--format", "yaml")
	assert.Contains(t, yamlOut, "code: P001")
	assert.Contains(t, yamlOut, "title: Pen")
	assert.Contains(t, yamlOut, "price: 1.5\n", "price is a number like in JSON")
	assert.Contains(t, yamlOut, "stock: 10\n")

	outFile := filepath.Join(t.TempDir(), "dump.json")
	assert.Empty(t, h.mustRun("export", "--out", outFile))

	raw, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var products []catalog.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 1)

	_, err = h.run("export", "--format", "xml")
	require.Error(t, err)
}

func TestCLI_MetricsFile(t *testing.T) {
	h := newHarness(t)
	metricsFile := filepath.Join(t.TempDir(), "catalog.prom")

	h.mustRun("--metrics-file", metricsFile, "add",
		"--title", "Pen", "--description", "Blue pen", "--price", "1.5",
		"--thumbnail", "pen.png", "--code", "P001", "--stock", "10")

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `catalog_operations_total{op="add",result="ok",service="catalog"} 1`)
}
