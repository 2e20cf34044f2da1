package generator

import (
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
)

// Options collects the kernel command line switches relevant for resuming.
// A fresh Options is used for every run.
type Options struct {
	// ResumeOptions accumulates resumeflags= values joined with ",".
	ResumeOptions string
	// RootOptions accumulates rootflags= values joined with ",".
	RootOptions string
	// NoResume is set by a bare noresume switch.
	NoResume bool

	logger   logrus.FieldLogger
	warnings *multierror.Error
}

func NewOptions(logger logrus.FieldLogger) *Options {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Options{logger: logger}
}

func appendOption(current, value string) string {
	if current == "" {
		return value
	}
	return current + "," + value
}

func (o *Options) warn(format string, args ...interface{}) {
	err := newWarning(format, args...)
	o.logger.Warn(err.Error())
	o.warnings = multierror.Append(o.warnings, err)
}

// HandleParam is a cmdline.HandlerFunc. Unknown keys are ignored so other
// consumers can share the same parameter list.
func (o *Options) HandleParam(p cmdline.Param) error {
	switch {
	case cmdline.KeyEqual(p.Key, "resumeflags"):
		if !p.HasValue {
			o.warn("Missing argument for %s= kernel command line switch, ignoring.", p.Key)
			return nil
		}
		o.ResumeOptions = appendOption(o.ResumeOptions, p.Value)

	case cmdline.KeyEqual(p.Key, "rootflags"):
		if !p.HasValue {
			o.warn("Missing argument for %s= kernel command line switch, ignoring.", p.Key)
			return nil
		}
		o.RootOptions = appendOption(o.RootOptions, p.Value)

	case cmdline.KeyEqual(p.Key, "noresume"):
		if p.HasValue {
			o.warn("'noresume' kernel command line option specified with an argument, ignoring.")
			return nil
		}
		o.NoResume = true
	}

	return nil
}

// DeviceOptions returns the options that apply to the resume device:
// resumeflags= if any were given, rootflags= otherwise.
func (o *Options) DeviceOptions() string {
	if o.ResumeOptions != "" {
		return o.ResumeOptions
	}
	return o.RootOptions
}

// Warnings returns the problems found while collecting, or nil.
func (o *Options) Warnings() error {
	return o.warnings.ErrorOrNil()
}
