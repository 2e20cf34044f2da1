package main_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	main "github.com/osbuild/hibernate-resume-generator/cmd/hibernate-resume-generator"
	"github.com/osbuild/hibernate-resume-generator/internal/common"
)

type fixture struct {
	config              string
	initrdRelease       string
	normal, early, late string
}

func newFixture(t *testing.T, inInitrd bool) *fixture {
	root := t.TempDir()
	f := &fixture{
		config:        filepath.Join(root, "config.toml"),
		initrdRelease: filepath.Join(root, "initrd-release"),
		normal:        filepath.Join(root, "normal"),
		early:         filepath.Join(root, "early"),
		late:          filepath.Join(root, "late"),
	}
	for _, dir := range []string{f.normal, f.early, f.late, filepath.Join(root, "efivars")} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	if inInitrd {
		require.NoError(t, os.WriteFile(f.initrdRelease, []byte("ID=fedora\n"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "os-release"), []byte("ID=fedora\n"), 0644))

	config := `log_level = "debug"
log_target = "console"

[paths]
initrd_release = "` + f.initrdRelease + `"
efivarfs = "` + filepath.Join(root, "efivars") + `"
os_release = "` + filepath.Join(root, "os-release") + `"
`
	require.NoError(t, os.WriteFile(f.config, []byte(config), 0644))

	if inInitrd {
		t.Setenv("SYSTEMD_IN_INITRD", "1")
	} else {
		t.Setenv("SYSTEMD_IN_INITRD", "0")
	}
	t.Setenv("SYSTEMD_SOFT_REBOOTS_COUNT", "0")

	restoreJournal := main.MockJournalEnabled(false)
	restoreEnv := main.MockEnv(map[string]string{})
	t.Cleanup(func() {
		restoreJournal()
		restoreEnv()
		main.ResetConfigPath()
		main.RootCmd.SetArgs(nil)
		logrus.SetOutput(os.Stderr)
	})

	return f
}

func (f *fixture) execute(extra ...string) error {
	args := append([]string{"--config", f.config}, extra...)
	main.RootCmd.SetArgs(args)
	return main.RootCmd.Execute()
}

func TestGeneratorWritesUnits(t *testing.T) {
	f := newFixture(t, true)
	t.Setenv("SYSTEMD_PROC_CMDLINE", "quiet resume=/dev/sda2 resumeflags=nofail")

	require.NoError(t, f.execute(f.normal, f.early, f.late))

	content, err := os.ReadFile(filepath.Join(f.normal, "dev-sda2.device.d", "40-device-timeout.conf"))
	require.NoError(t, err)
	assert.Equal(t, "# Automatically generated by hibernate-resume-generator\n\n[Unit]\nJobTimeoutSec=infinity\n", string(content))

	content, err = os.ReadFile(filepath.Join(f.normal, "systemd-hibernate-resume.service.d", "90-device-dependency.conf"))
	require.NoError(t, err)
	assert.Equal(t, "# Automatically generated by hibernate-resume-generator\n\n[Unit]\nBindsTo=dev-sda2.device\nAfter=dev-sda2.device\n", string(content))

	target, err := os.Readlink(filepath.Join(f.normal, "sysinit.target.wants", "systemd-hibernate-resume.service"))
	require.NoError(t, err)
	assert.Equal(t, "../systemd-hibernate-resume.service", target)

	for _, dir := range []string{f.early, f.late} {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestGeneratorOutsideInitrd(t *testing.T) {
	f := newFixture(t, false)
	t.Setenv("SYSTEMD_PROC_CMDLINE", "resume=/dev/sda2")

	require.NoError(t, f.execute(f.normal, f.early, f.late))

	entries, err := os.ReadDir(f.normal)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorNoResume(t *testing.T) {
	f := newFixture(t, true)
	t.Setenv("SYSTEMD_PROC_CMDLINE", "resume=/dev/sda2 noresume")

	require.NoError(t, f.execute(f.normal, f.early, f.late))

	entries, err := os.ReadDir(f.normal)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorFatal(t *testing.T) {
	f := newFixture(t, true)
	t.Setenv("SYSTEMD_PROC_CMDLINE", "resume=/dev/sda2 resume_offset=garbage")

	err := f.execute(f.normal, f.early, f.late)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resume_offset")
}

func TestGeneratorArguments(t *testing.T) {
	f := newFixture(t, true)

	err := f.execute(f.normal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero or three arguments")
}

func TestRunExitCode(t *testing.T) {
	f := newFixture(t, true)

	logrus.SetOutput(io.Discard)
	_, hook := logrusTest.NewNullLogger()
	logrus.AddHook(hook)

	main.RootCmd.SetArgs([]string{"--config", f.config, "one", "two"})
	assert.Equal(t, 1, main.Run())
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "zero or three arguments")
}

func makeLogrus(buf *bytes.Buffer) *logrus.Logger {
	return &logrus.Logger{
		Out:       buf,
		Formatter: &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
}

func TestSetupLoggingConsole(t *testing.T) {
	defer main.MockJournalEnabled(false)()
	defer main.MockEnv(map[string]string{"SYSTEMD_LOG_LEVEL": "debug"})()

	logger := makeLogrus(&bytes.Buffer{})
	config := main.DefaultConfig()
	main.SetupLogging(logger, config)

	assert.Equal(t, logrus.DebugLevel, logger.Level)
	assert.Equal(t, os.Stderr, logger.Out)
	require.Len(t, logger.Hooks[logrus.WarnLevel], 1)
	assert.IsType(t, &common.BuildHook{}, logger.Hooks[logrus.WarnLevel][0])
}

func TestSetupLoggingJournal(t *testing.T) {
	defer main.MockJournalEnabled(true)()
	defer main.MockEnv(map[string]string{})()

	logger := makeLogrus(&bytes.Buffer{})
	config := main.DefaultConfig()
	config.LogLevel = "warning"
	main.SetupLogging(logger, config)

	assert.Equal(t, logrus.WarnLevel, logger.Level)
	assert.Equal(t, io.Discard, logger.Out)
	require.Len(t, logger.Hooks[logrus.WarnLevel], 2)
	assert.IsType(t, &common.JournalHook{}, logger.Hooks[logrus.WarnLevel][1])
}

func TestSetupLoggingTargetOverride(t *testing.T) {
	defer main.MockJournalEnabled(true)()
	defer main.MockEnv(map[string]string{"SYSTEMD_LOG_TARGET": "console", "SYSTEMD_LOG_LEVEL": "bogus"})()

	logger := makeLogrus(&bytes.Buffer{})
	main.SetupLogging(logger, main.DefaultConfig())

	assert.Equal(t, logrus.InfoLevel, logger.Level)
	assert.Equal(t, os.Stderr, logger.Out)
	assert.Len(t, logger.Hooks[logrus.WarnLevel], 1)
}
