package common

import (
	"github.com/sirupsen/logrus"
)

// BuildHook adds the build the generator came from to warnings and errors.
// Debug output gets it too, info stays short for the boot log.
type BuildHook struct {
}

func (h *BuildHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.DebugLevel,
		logrus.TraceLevel,
	}
}

func (h *BuildHook) Fire(e *logrus.Entry) error {
	e.Data["build_commit"] = BuildCommit
	if BuildTime != unknownBuildTime {
		e.Data["build_time"] = BuildTime
	}
	if BuildGoVersion != "" {
		e.Data["build_go"] = BuildGoVersion
	}

	return nil
}
