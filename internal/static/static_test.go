package static

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	fsys, err := FS()
	require.NoError(t, err)

	f, err := fsys.Open("style.css")
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	css, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(css), ".notice.error")
}
