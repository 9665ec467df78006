package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	root string
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	root := t.TempDir()
	avatar := filepath.Join(root, "person.png")
	f, err := os.Create(avatar)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	t.Setenv("AGENDA_IMAGES_DEFAULT_AVATAR", avatar)
	return &cli{root: root}
}

func (c *cli) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	base := []string{
		"--db", filepath.Join(c.root, "contacts.db"),
		"--images-dir", filepath.Join(c.root, "images"),
		"--log-level", "error",
	}
	cmd.SetArgs(append(args, base...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI_AddUpdateShowDelete(t *testing.T) {
	c := newCLI(t)

	out, _, err := c.run(t, "add", "--name", "Ana", "--surname", "Diaz", "--phone", "555-1111")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	out, _, err = c.run(t, "update", "1", "--phone", "555-2222")
	require.NoError(t, err)
	assert.Contains(t, out, "Phone:   555-2222")
	assert.Contains(t, out, "Name:    Ana")

	out, _, err = c.run(t, "list")
	require.NoError(t, err)
	assert.Equal(t, "1\tAna Diaz\n", out)

	out, _, err = c.run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Phone:   555-2222")

	_, _, err = c.run(t, "delete", "1")
	require.NoError(t, err)

	_, _, err = c.run(t, "show", "1")
	assert.Error(t, err)
}

func TestCLI_AddRequiresFields(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run(t, "add", "--name", "Ana", "--surname", "Diaz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phone")

	out, _, err := c.run(t, "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCLI_Export(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run(t, "add", "--name", "Ana", "--surname", "Diaz", "--phone", "1")
	require.NoError(t, err)

	out, stderr, err := c.run(t, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN:VCARD")
	assert.Contains(t, stderr, "exported 1 contacts")
}

func TestCLI_InvalidID(t *testing.T) {
	c := newCLI(t)

	_, _, err := c.run(t, "delete", "abc")
	assert.Error(t, err)
}
