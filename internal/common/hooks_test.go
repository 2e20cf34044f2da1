package common

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func makeLogrus(buf *bytes.Buffer) *logrus.Logger {
	return &logrus.Logger{
		Out: buf,
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
			DisableColors:    true,
		},
		Hooks: make(logrus.LevelHooks),
		Level: logrus.DebugLevel,
	}

}

func TestBuildHook(t *testing.T) {
	buf := &bytes.Buffer{}
	l := makeLogrus(buf)
	l.AddHook(&BuildHook{})
	l.Warn("test message")
	require.Contains(t, buf.String(), "build_commit="+BuildCommit)

	buf.Reset()
	l.Info("quiet message")
	require.NotContains(t, buf.String(), "build_commit=")
}

func mockBuildInfo(t *testing.T) {
	commit, buildTime, goVersion := BuildCommit, BuildTime, BuildGoVersion
	t.Cleanup(func() {
		BuildCommit, BuildTime, BuildGoVersion = commit, buildTime, goVersion
	})
	BuildCommit, BuildTime, BuildGoVersion = "HEAD", unknownBuildTime, ""
}

func TestReadBuildInfo(t *testing.T) {
	mockBuildInfo(t)

	readBuildInfo(func() (*debug.BuildInfo, bool) {
		return nil, false
	})
	require.Equal(t, "N/A", BuildTime)
	require.Equal(t, "HEAD", BuildCommit)

	readBuildInfo(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{GoVersion: "go1.23.9"}, true
	})
	require.Equal(t, "N/A", BuildTime)
	require.Equal(t, "HEAD", BuildCommit)
	require.Equal(t, "go1.23.9", BuildGoVersion)

	readBuildInfo(func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			GoVersion: "go1.23.9",
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef"},
				{Key: "vcs.time", Value: "2026-10-18T10:00:00Z"},
			},
		}, true
	})
	require.Equal(t, "2026-10-18T10:00:00Z", BuildTime)
	require.Equal(t, "012345", BuildCommit)
}

func TestBuildHookUnknownBuildTime(t *testing.T) {
	mockBuildInfo(t)

	buf := &bytes.Buffer{}
	l := makeLogrus(buf)
	l.AddHook(&BuildHook{})
	l.Error("test message")
	require.Contains(t, buf.String(), "build_commit=HEAD")
	require.NotContains(t, buf.String(), "build_time=")
	require.NotContains(t, buf.String(), "build_go=")
}

type journalEntry struct {
	message  string
	priority journal.Priority
	vars     map[string]string
}

func TestJournalHook(t *testing.T) {
	var sent []journalEntry
	hook := NewJournalHook("hibernate-resume-generator")
	hook.send = func(message string, priority journal.Priority, vars map[string]string) error {
		sent = append(sent, journalEntry{message, priority, vars})
		return nil
	}

	l := makeLogrus(&bytes.Buffer{})
	l.AddHook(hook)
	l.WithField("device-unit", "dev-sda2.device").Warn("warned")
	l.Debug("debugged")

	require.Len(t, sent, 2)
	require.Equal(t, "warned", sent[0].message)
	require.Equal(t, journal.PriWarning, sent[0].priority)
	require.Equal(t, map[string]string{
		"DEVICE_UNIT":       "dev-sda2.device",
		"SYSLOG_IDENTIFIER": "hibernate-resume-generator",
	}, sent[0].vars)
	require.Equal(t, journal.PriDebug, sent[1].priority)
}

func TestStringifyKey(t *testing.T) {
	require.Equal(t, "BUILD_COMMIT", stringifyKey("build_commit"))
	require.Equal(t, "DEVICE_UNIT", stringifyKey("device-unit"))
	require.Equal(t, "X", stringifyKey("_x"))
}

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		"7":       logrus.DebugLevel,
		"info":    logrus.InfoLevel,
		"notice":  logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		"4":       logrus.WarnLevel,
		"err":     logrus.ErrorLevel,
		"error":   logrus.ErrorLevel,
		"crit":    logrus.FatalLevel,
		" DEBUG ": logrus.DebugLevel,
	}
	for input, expected := range cases {
		l, err := ParseLogLevel(input)
		require.NoError(t, err, input)
		require.Equal(t, expected, l, input)
	}

	_, err := ParseLogLevel("chatty")
	require.Error(t, err)
}
