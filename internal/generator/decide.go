package generator

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
	"github.com/osbuild/hibernate-resume-generator/internal/hibernate"
)

// SkipReason tells why no resume configuration was written.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNotInitrd
	SkipSoftReboot
	SkipNoResume
	SkipNoDevice
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipNotInitrd:
		return "not-in-initrd"
	case SkipSoftReboot:
		return "soft-reboot"
	case SkipNoResume:
		return "noresume"
	case SkipNoDevice:
		return "no-device"
	}
	return fmt.Sprintf("SkipReason(%d)", int(r))
}

// Decision is the outcome of Decide. Info is set when resuming should
// proceed.
type Decision struct {
	Skip     SkipReason
	Info     *hibernate.Info
	Warnings *multierror.Error
}

func (d Decision) Proceed() bool {
	return d.Skip == SkipNone && d.Info != nil
}

func (d *Decision) warn(g *Generator, format string, args ...interface{}) {
	err := newWarning(format, args...)
	g.Logger.Warn(err.Error())
	d.Warnings = multierror.Append(d.Warnings, err)
}

// params loads the kernel command line. rd. prefixed keys are passed on
// with their prefix, so rd.noresume is not noresume. On a parse error the
// parameters up to the broken word are returned with the error.
func (g *Generator) params() ([]cmdline.Param, error) {
	line, err := g.Cmdline()
	if err != nil {
		return nil, err
	}
	params, err := cmdline.Parse(line)
	return cmdline.Filter(params, g.Env.InInitrd(), 0), err
}

// Decide runs the checks from cheapest to most expensive and stops at the
// first one that rules out resuming. opts is filled from the kernel command
// line on the way.
func (g *Generator) Decide(opts *Options) (Decision, error) {
	var d Decision

	if err := g.init(); err != nil {
		return d, err
	}

	if !g.Env.InInitrd() {
		g.Logger.Debug("Not running in initrd, exiting.")
		d.Skip = SkipNotInitrd
		return d, nil
	}

	if g.Env.SoftRebooted() {
		g.Logger.Debug("Running in an initrd entered through soft-reboot, not initiating resume.")
		d.Skip = SkipSoftReboot
		return d, nil
	}

	params, err := g.params()
	if err != nil {
		d.warn(g, "Failed to parse kernel command line, ignoring: %v", err)
	}
	if err := cmdline.Each(params, opts.HandleParam); err != nil {
		d.warn(g, "Failed to parse kernel command line, ignoring: %v", err)
	}
	if w := opts.Warnings(); w != nil {
		d.Warnings = multierror.Append(d.Warnings, w)
	}

	if opts.NoResume {
		g.Logger.Info("Found 'noresume' on the kernel command line, exiting.")
		d.Skip = SkipNoResume
		return d, nil
	}

	info, err := g.Acquire(params)
	if errors.Is(err, hibernate.ErrNoDevice) {
		g.Logger.Debugf("No resume device found, exiting: %v", err)
		d.Skip = SkipNoDevice
		return d, nil
	}
	if err != nil {
		return d, fmt.Errorf("failed to acquire hibernation info: %w", err)
	}
	if info == nil || info.Device == "" {
		return d, errors.New("failed to acquire hibernation info: no device in result")
	}

	g.Logger.WithField("device", info.Device).Debug("Found hibernation image location.")
	d.Info = info
	return d, nil
}
