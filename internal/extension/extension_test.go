package extension

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/pmx/internal/config"
	"github.com/thoreinstein/pmx/internal/errors"
	"github.com/thoreinstein/pmx/internal/logging"
)

func TestValidName(t *testing.T) {
	valid := []string{"test", "test-command", "test_command", "test123", "a-b-c"}
	for _, name := range valid {
		assert.True(t, ValidName(name), name)
	}

	invalid := []string{"", "-test", "test-", "test--command", "test/command", `test\command`, "test command", "test.command", "../malicious"}
	for _, name := range invalid {
		assert.False(t, ValidName(name), name)
	}
}

func runner(t *testing.T, allowed []string, stdout *bytes.Buffer) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.Extensions.AllowedSubcommands = allowed
	return NewRunner(cfg, WithIO(bytes.NewReader(nil), stdout, stdout), WithLogger(logging.ForTest(t)))
}

func TestRun_Rejections(t *testing.T) {
	var out bytes.Buffer
	r := runner(t, []string{"allowed-cmd"}, &out)

	err := r.Run(t.Context(), nil)
	assert.ErrorIs(t, err, ErrEmptySubcommand)

	err = r.Run(t.Context(), []string{"../malicious"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid subcommand name")

	err = r.Run(t.Context(), []string{"not-allowed"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrDisabled)
	assert.Contains(t, err.Error(), `extension "not-allowed" is not allowed`)
}

func TestRun_MissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	var out bytes.Buffer
	err := runner(t, []string{"test-cmd"}, &out).Run(t.Context(), []string{"test-cmd"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute extension pmx-test-cmd")
}

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755))
}

func TestRun_ForwardsArgsAndStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	writeScript(t, dir, "pmx-hello", `echo "hello $*"`)
	writeScript(t, dir, "pmx-fail", `exit 3`)
	t.Setenv("PATH", dir)

	var out bytes.Buffer
	r := runner(t, []string{"hello", "fail"}, &out)

	require.NoError(t, r.Run(t.Context(), []string{"hello", "a", "b"}))
	assert.Equal(t, "hello a b\n", out.String())

	err := r.Run(t.Context(), []string{"fail"})
	var status *StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 3, status.Code)
	assert.Equal(t, "pmx-fail", status.Binary)
}
