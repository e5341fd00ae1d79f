package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Forgate-Labs/Grok-CLI/internal/tool/service/fs"
	pathsvc "github.com/Forgate-Labs/Grok-CLI/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLocalFileTool(t *testing.T) {
	dir := t.TempDir()
	tl := NewReadLocalFileTool(fs.NewOSFileSystem(), pathsvc.NewResolver(pathsvc.FixedDir(dir)), 16)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte(strings.Repeat("x", 17)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin.dat"), []byte{1, 0, 2}, 0o644))

	tests := []struct {
		name    string
		args    string
		success bool
		want    string
	}{
		{name: "reads file", args: `{"path":"small.txt"}`, success: true, want: "hello"},
		{name: "escape rejected", args: `{"path":"../etc/passwd"}`, want: "Path must stay inside the working directory"},
		{name: "missing", args: `{"path":"nope.txt"}`, want: "File not found: nope.txt"},
		{name: "too large", args: `{"path":"big.txt"}`, want: "File is too large to read (limit 16 bytes)"},
		{name: "binary", args: `{"path":"bin.dat"}`, want: "Cannot read binary file: bin.dat"},
		{name: "empty path", args: `{"path":" "}`, want: "Path is required"},
		{name: "bad json", args: `{`, want: "Invalid arguments payload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tl.Execute(ctx, json.RawMessage(tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.success, res.Success)
			if tt.success {
				assert.Equal(t, tt.want, res.Output)
			} else {
				assert.Equal(t, tt.want, res.Error)
			}
		})
	}
}
