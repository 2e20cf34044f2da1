package main

import (
	"io"
	"os"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/sirupsen/logrus"

	"github.com/osbuild/hibernate-resume-generator/internal/common"
	"github.com/osbuild/hibernate-resume-generator/internal/generator"
)

var (
	journalEnabled = journal.Enabled
	lookupEnv      = os.LookupEnv
)

// setupLogging configures the standard logger. SYSTEMD_LOG_LEVEL and
// SYSTEMD_LOG_TARGET take precedence over the configuration file, the same
// way they do for every other generator.
func setupLogging(logger *logrus.Logger, config *generatorConfig) {
	levelName := config.LogLevel
	if v, ok := lookupEnv("SYSTEMD_LOG_LEVEL"); ok {
		levelName = v
	}
	level, err := common.ParseLogLevel(levelName)
	if err != nil {
		logger.Warnf("Ignoring log level: %v", err)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	target := config.LogTarget
	if v, ok := lookupEnv("SYSTEMD_LOG_TARGET"); ok && validLogTarget(v) {
		target = v
	}
	if target == logTargetAuto {
		target = logTargetConsole
		if journalEnabled() {
			target = logTargetJournal
		}
	}

	logger.AddHook(&common.BuildHook{})

	switch target {
	case logTargetJournal:
		logger.AddHook(common.NewJournalHook(generator.Name))
		logger.SetOutput(io.Discard)
	default:
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}
}
