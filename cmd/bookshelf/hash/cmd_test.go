package hash

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrebq/bookshelf/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func withStdin(t *testing.T, content string) {
	file := filepath.Join(t.TempDir(), "stdin")
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))
	f, err := os.Open(file)
	require.NoError(t, err)
	orig := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = orig
		f.Close()
	})
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	app := &cli.App{
		Name:     "bookshelf",
		Writer:   &out,
		Commands: []*cli.Command{Cmd()},
	}
	err := app.Run(append([]string{"bookshelf"}, args...))
	return out.String(), err
}

func TestGenerateAndCheck(t *testing.T) {
	withStdin(t, "!123456\n")
	out, err := run("hash", "generate", "--method", "pbkdf2:sha256:1000", "--salt-length", "8")
	require.NoError(t, err)
	stored := strings.TrimSpace(out)
	assert.True(t, strings.HasPrefix(stored, "pbkdf2:sha256:1000$"))
	assert.True(t, credential.Check(stored, "!123456"))

	withStdin(t, "!123456\n")
	out, err = run("hash", "check", "--hash", stored)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)

	withStdin(t, "wrong\n")
	_, err = run("hash", "check", "--hash", stored)
	assert.Error(t, err)
}

func TestGenerateRejectsBadMethod(t *testing.T) {
	withStdin(t, "!123456\n")
	_, err := run("hash", "generate", "--method", "scrypt")
	assert.ErrorAs(t, err, &credential.InvalidMethod{})
}
