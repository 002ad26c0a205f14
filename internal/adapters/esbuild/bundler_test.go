package esbuild_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"go.trai.ch/weld/internal/adapters/esbuild"
	"go.trai.ch/weld/internal/core/domain"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return root
}

func TestBundler_BundlesImports(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"scripts/app.ts":       "import { greet } from \"./lib/greet\";\nconsole.log(greet(\"weld\"));\n",
		"scripts/lib/greet.ts": "export function greet(name: string): string {\n  return `hello ${name}`;\n}\n",
	})

	out, err := esbuild.New().Bundle(context.Background(), "scripts/app.ts", root)
	require.NoError(t, err)

	assert.Contains(t, out, "function greet(name)")
	assert.Contains(t, out, "console.log(greet(\"weld\"))")
	assert.NotContains(t, out, "import ")
	assert.NotContains(t, out, ": string")
}

func TestBundler_SyntaxError(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"broken.ts": "const = ;\n",
	})

	_, err := esbuild.New().Bundle(context.Background(), "broken.ts", root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScriptCompile)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "broken.ts", zErr.Metadata()["path"])
	assert.Equal(t, 1, zErr.Metadata()["line"])
}

func TestBundler_MissingEntry(t *testing.T) {
	root := t.TempDir()

	_, err := esbuild.New().Bundle(context.Background(), "missing.ts", root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrScriptCompile)
}

func TestBundler_RejectsExtraOutputs(t *testing.T) {
	root := writeFiles(t, map[string]string{
		"app.js":    "import \"./theme.css\";\nconsole.log(1);\n",
		"theme.css": "body { color: red; }\n",
	})

	_, err := esbuild.New().Bundle(context.Background(), "app.js", root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutputCount)
}

func TestBundler_CancelledContext(t *testing.T) {
	root := writeFiles(t, map[string]string{"app.js": "console.log(1);\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := esbuild.New().Bundle(ctx, "app.js", root)
	assert.ErrorIs(t, err, context.Canceled)
}
