package environment

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

const (
	DefaultInitrdReleasePath = "/etc/initrd-release"

	InInitrdEnv         = "SYSTEMD_IN_INITRD"
	SoftRebootsCountEnv = "SYSTEMD_SOFT_REBOOTS_COUNT"
)

// Host inspects the running system.
type Host struct {
	InitrdReleasePath string
	Logger            logrus.FieldLogger

	lookupEnv func(string) (string, bool)
	access    func(path string, mode uint32) error

	inInitrd *bool
}

func NewHost(initrdReleasePath string, logger logrus.FieldLogger) *Host {
	if initrdReleasePath == "" {
		initrdReleasePath = DefaultInitrdReleasePath
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Host{
		InitrdReleasePath: initrdReleasePath,
		Logger:            logger,
		lookupEnv:         os.LookupEnv,
		access:            unix.Access,
	}
}

func parseBoolean(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "1", "yes", "y", "true", "t", "on":
		return true, nil
	case "0", "no", "n", "false", "f", "off":
		return false, nil
	}
	return false, fmt.Errorf("unparsable boolean %q", v)
}

// InInitrd honors SYSTEMD_IN_INITRD if it is set to a boolean and checks
// for the initrd-release file otherwise. The answer is cached.
func (h *Host) InInitrd() bool {
	if h.inInitrd != nil {
		return *h.inInitrd
	}

	result := h.detectInitrd()
	h.inInitrd = &result
	return result
}

func (h *Host) detectInitrd() bool {
	if v, ok := h.lookupEnv(InInitrdEnv); ok {
		b, err := parseBoolean(v)
		if err == nil {
			return b
		}
		h.Logger.Debugf("Failed to parse $%s value %q, ignoring.", InInitrdEnv, v)
	}

	err := h.access(h.InitrdReleasePath, unix.F_OK)
	if err != nil && !errors.Is(err, unix.ENOENT) {
		h.Logger.Debugf("Failed to check if %s exists, assuming no initrd: %v", h.InitrdReleasePath, err)
	}
	return err == nil
}

// SoftRebooted reports whether the service manager counted at least one
// soft-reboot before spawning us.
func (h *Host) SoftRebooted() bool {
	v, ok := h.lookupEnv(SoftRebootsCountEnv)
	if !ok {
		return false
	}

	count, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		h.Logger.Debugf("Failed to parse $%s value %q, ignoring: %v", SoftRebootsCountEnv, v, err)
		return false
	}
	return count > 0
}
