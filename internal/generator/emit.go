package generator

import (
	"fmt"
	"path"

	sdunit "github.com/coreos/go-systemd/v22/unit"
	"github.com/hashicorp/go-multierror"

	"github.com/osbuild/hibernate-resume-generator/internal/fstab"
	"github.com/osbuild/hibernate-resume-generator/internal/hibernate"
	"github.com/osbuild/hibernate-resume-generator/internal/pathpolicy"
	"github.com/osbuild/hibernate-resume-generator/internal/unit"
)

// Emission lists what Emit wrote, relative to the output directory.
type Emission struct {
	DeviceUnit string
	Written    []string
	Warnings   *multierror.Error
}

func (e *Emission) warn(g *Generator, format string, args ...interface{}) {
	err := newWarning(format, args...)
	g.Logger.Warn(err.Error())
	e.Warnings = multierror.Append(e.Warnings, err)
}

// writeDeviceTimeout writes the timeout requested by x-systemd.device-timeout=
// in flags. It reports whether a drop-in was written.
func (g *Generator) writeDeviceTimeout(w *unit.Writer, e *Emission, device, flags string) (bool, error) {
	timeout, ok, err := g.DeviceTimeout(flags)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	node := fstab.NodeToUdevNode(device)
	if err := pathpolicy.DevicePolicies.Check(path.Clean(node)); err != nil {
		e.warn(g, "x-systemd.device-timeout ignored for %s: %v", device, err)
		return false, nil
	}

	deviceUnit, err := unit.NameFromPath(node, ".device")
	if err != nil {
		return false, fmt.Errorf("failed to make unit name from path %q: %w", node, err)
	}

	rel, err := w.WriteDropIn(deviceUnit, deviceTimeoutPriority, "device-timeout", []*sdunit.UnitOption{
		sdunit.NewUnitOption("Unit", "JobRunningTimeoutSec", timeout),
	})
	if err != nil {
		return false, err
	}
	e.Written = append(e.Written, rel)
	return true, nil
}

// Emit writes the timeout and dependency drop-ins for the resume device and
// hooks the resume service into sysinit.target. Failing to write a timeout
// only produces a warning; the returned error means the resume service
// would not be ordered after its device.
func (g *Generator) Emit(opts *Options, info *hibernate.Info) (*Emission, error) {
	e := &Emission{}

	if err := g.init(); err != nil {
		return e, err
	}
	if info == nil {
		return e, fmt.Errorf("%w: no hibernation info to emit", ErrNotConfigured)
	}

	deviceUnit, err := unit.NameFromPath(info.Device, ".device")
	if err != nil {
		return e, fmt.Errorf("failed to generate device unit name from path %q: %w", info.Device, err)
	}
	e.DeviceUnit = deviceUnit
	logger := g.Logger.WithField("device_unit", deviceUnit)

	w := unit.NewWriter(g.Dest, Name)

	written, err := g.writeDeviceTimeout(w, e, info.Device, opts.DeviceOptions())
	if err != nil {
		e.warn(g, "Failed to write device timeout drop-in, ignoring: %v", err)
	}
	if !written {
		timeout := efiDeviceTimeout
		if info.Cmdline != nil {
			timeout = cmdlineDeviceTimeout
		}
		rel, err := w.WriteDropIn(deviceUnit, fallbackTimeoutPriority, "device-timeout", []*sdunit.UnitOption{
			sdunit.NewUnitOption("Unit", "JobTimeoutSec", timeout),
		})
		if err != nil {
			e.warn(g, "Failed to write fallback device timeout drop-in, ignoring: %v", err)
		} else {
			logger.Debugf("Waiting %s for the resume device.", timeout)
			e.Written = append(e.Written, rel)
		}
	}

	rel, err := w.WriteDropIn(g.ResumeService, dependencyPriority, "device-dependency", []*sdunit.UnitOption{
		sdunit.NewUnitOption("Unit", "BindsTo", deviceUnit),
		sdunit.NewUnitOption("Unit", "After", deviceUnit),
	})
	if err != nil {
		return e, fmt.Errorf("failed to write device dependency drop-in: %w", err)
	}
	e.Written = append(e.Written, rel)

	rel, err = w.AddSymlink(SysinitTarget, "wants", g.ResumeService)
	if err != nil {
		return e, fmt.Errorf("failed to pull %s into %s: %w", g.ResumeService, SysinitTarget, err)
	}
	e.Written = append(e.Written, rel)

	logger.Infof("Resuming from %s (offset %d).", info.Device, info.Offset)
	return e, nil
}
