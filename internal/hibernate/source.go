package hibernate

import (
	"github.com/sirupsen/logrus"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
	"github.com/osbuild/hibernate-resume-generator/internal/common"
)

const DefaultOSReleasePath = "/etc/os-release"

// Source looks for hibernation info on the kernel command line and in the
// firmware.
type Source struct {
	EFIVarsDir    string
	OSReleasePath string
	Logger        logrus.FieldLogger

	kernelRelease func() (string, error)
	readOSRelease func(path string) (map[string]string, error)
}

func NewSource(efiVarsDir, osReleasePath string, logger logrus.FieldLogger) *Source {
	if efiVarsDir == "" {
		efiVarsDir = DefaultEFIVarsDir
	}
	if osReleasePath == "" {
		osReleasePath = DefaultOSReleasePath
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Source{
		EFIVarsDir:    efiVarsDir,
		OSReleasePath: osReleasePath,
		Logger:        logger,
		kernelRelease: kernelRelease,
		readOSRelease: common.ReadOSRelease,
	}
}

// Acquire determines the resume device. resume= takes precedence over the
// HibernateLocation EFI variable; if both are present but disagree the
// variable is dropped. ErrNoDevice is returned if there is nothing to
// resume from, any other error means the input could not be understood.
func (s *Source) Acquire(params []cmdline.Param) (*Info, error) {
	config, err := s.parseCmdline(params)
	if err != nil {
		return nil, err
	}

	location := s.readEFILocation()

	switch {
	case config != nil:
		if location != nil && (location.Device != config.Device || location.Offset != config.Offset) {
			s.Logger.Warnf("HibernateLocation EFI variable (%s, offset %d) does not match resume=%s resume_offset=%d, ignoring the variable.",
				location.Device, location.Offset, config.Device, config.Offset)
			location = nil
		}
		return &Info{
			Device:  config.Device,
			Offset:  config.Offset,
			Cmdline: config,
			EFI:     location,
		}, nil

	case location != nil:
		return &Info{
			Device: location.Device,
			Offset: location.Offset,
			EFI:    location,
		}, nil
	}

	return nil, ErrNoDevice
}
