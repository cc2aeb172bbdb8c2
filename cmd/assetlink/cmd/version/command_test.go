package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simpilot/assetlink/internal/appcontext"
)

func TestVersion(t *testing.T) {
	cmd := NewCommand(&appcontext.Mock{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, buf.String(), "assetlink version test")
	assert.Contains(t, buf.String(), "go version: go")
}
