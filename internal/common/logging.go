package common

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// ParseLogLevel accepts logrus level names as well as the syslog style
// names used by SYSTEMD_LOG_LEVEL, including the numeric 0-7 forms.
func ParseLogLevel(level string) (logrus.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "0", "emerg", "1", "alert", "2", "crit":
		return logrus.FatalLevel, nil
	case "3", "err":
		return logrus.ErrorLevel, nil
	case "4":
		return logrus.WarnLevel, nil
	case "5", "notice", "6":
		return logrus.InfoLevel, nil
	case "7":
		return logrus.DebugLevel, nil
	}

	l, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}
