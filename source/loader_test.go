package source

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/paramgrid"
	"github.com/hupe1980/paramgrid/blobstore"
	"github.com/hupe1980/paramgrid/label"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInline(t *testing.T) {
	assert.True(t, IsInline(`{"rate": 1}`))
	assert.True(t, IsInline("  [1]"))
	assert.True(t, IsInline("rate: 1\ncap: 2"))
	assert.False(t, IsInline("params/rate.json"))
	assert.False(t, IsInline("s3://bucket/rate.json"))
}

func TestLoadInline(t *testing.T) {
	ctx := context.Background()
	l := NewLoader()

	doc, err := l.Load(ctx, `{"cap": 100}`)
	require.NoError(t, err)
	assert.Equal(t, []label.Record{label.NewRecord(label.Int(100), nil)}, doc.Params["cap"])

	doc, err = l.Load(ctx, "cap: 100\nrate:\n  - year: 2024\n    value: 0.1\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"cap", "rate"}, doc.Names())
	assert.Equal(t, label.Int(2024), doc.Params["rate"][0].Labels["year"])

	_, err = l.Load(ctx, `{"cap": `)
	assert.Error(t, err)
}

func TestLoadLocal(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	l := NewLoader()

	for _, name := range []string{"defaults.json", "defaults.json.zst", "defaults.json.lz4", "defaults.yaml.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			data := []byte(defaultsJSON)
			if filepath.Ext(StripCompression(name)) == ".yaml" {
				data = []byte("schema:\n  labels:\n    - name: year\n      values: [2024]\ncap: 100\n")
			}
			require.NoError(t, l.Save(ctx, path, data))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			if name != "defaults.json" {
				assert.NotEqual(t, data, raw, "stored compressed")
			}

			doc, err := l.Load(ctx, path)
			require.NoError(t, err)
			assert.Contains(t, doc.Names(), "cap")
			assert.NotNil(t, doc.Schema)
		})
	}

	t.Run("FileScheme", func(t *testing.T) {
		doc, err := l.Load(ctx, "file://"+filepath.Join(dir, "defaults.json"))
		require.NoError(t, err)
		assert.Len(t, doc.Params, 3)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := l.Load(ctx, filepath.Join(dir, "missing.json"))
		require.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}

func TestLoadStores(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "docs/defaults.json", []byte(defaultsJSON)))

	t.Run("RegisteredStore", func(t *testing.T) {
		l := NewLoader(WithStore("mem", mem))
		doc, err := l.Load(ctx, "mem://docs/defaults.json")
		require.NoError(t, err)
		assert.Len(t, doc.Params["rate"], 4)

		require.NoError(t, l.Save(ctx, "mem://docs/reform.json.lz4", []byte(`{"cap": 1}`)))
		doc, err = l.Load(ctx, "mem://docs/reform.json.lz4")
		require.NoError(t, err)
		assert.Equal(t, label.Int(1), doc.Params["cap"][0].Value)
	})

	t.Run("Resolver", func(t *testing.T) {
		var resolved atomic.Int32
		l := NewLoader(
			WithResolver("s3", func(_ context.Context, bucket string) (blobstore.BlobStore, error) {
				resolved.Add(1)
				assert.Equal(t, "params", bucket)
				return mem, nil
			}),
			WithRateLimit(1000, 10),
			WithBlockCache(1<<20, 256),
		)
		for range 3 {
			doc, err := l.Load(ctx, "s3://params/docs/defaults.json")
			require.NoError(t, err)
			assert.Len(t, doc.Params["rate"], 4)
		}
		assert.Equal(t, int32(1), resolved.Load(), "stores are resolved once per bucket")

		_, err := l.Load(ctx, "s3://params")
		assert.Error(t, err)
	})

	t.Run("UnsupportedScheme", func(t *testing.T) {
		_, err := NewLoader().Load(ctx, "ftp://host/rate.json")
		require.ErrorIs(t, err, ErrUnsupportedScheme)
	})

	t.Run("SaveInline", func(t *testing.T) {
		assert.Error(t, NewLoader().Save(ctx, `{"cap": 1}`, nil))
	})
}

func TestLoadAll(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "defaults.json", []byte(defaultsJSON)))
	require.NoError(t, mem.Put(ctx, "reform.yaml", []byte("rate:\n  - year: 2025\n    value: 0.3\n")))

	var buf bytes.Buffer
	logger := paramgrid.NewLogger(slog.NewJSONHandler(&buf, nil))
	l := NewLoader(WithStore("mem", mem), WithConcurrency(2), WithLogger(logger))

	docs, err := l.LoadAll(ctx, "mem://defaults.json", "mem://reform.yaml", `{"cap": 5}`)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.NotNil(t, docs[0].Schema)
	assert.Equal(t, []string{"rate"}, docs[1].Names())
	assert.Equal(t, []string{"cap"}, docs[2].Names())

	assert.Contains(t, buf.String(), `"msg":"load completed"`)
	assert.Contains(t, buf.String(), `"uri":"inline"`)
	assert.Contains(t, buf.String(), `"uri":"mem://reform.yaml"`)

	p, err := Build(ctx, docs)
	require.NoError(t, err)
	got, err := p.Records("cap")
	require.NoError(t, err)
	assert.Equal(t, label.Int(5), got[0].Value)

	t.Run("Error", func(t *testing.T) {
		buf.Reset()
		_, err := l.LoadAll(ctx, "mem://defaults.json", "mem://missing.json")
		require.ErrorIs(t, err, blobstore.ErrNotFound)
		assert.Contains(t, buf.String(), `"msg":"load failed"`)
	})
}
