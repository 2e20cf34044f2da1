// Package generator decides whether the system should resume from
// hibernation and writes the unit configuration that makes the resume
// service wait for the hibernation device.
package generator

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
	"github.com/osbuild/hibernate-resume-generator/internal/environment"
	"github.com/osbuild/hibernate-resume-generator/internal/fstab"
	"github.com/osbuild/hibernate-resume-generator/internal/hibernate"
)

const (
	// Name identifies the generator in the files it writes.
	Name = "hibernate-resume-generator"

	DefaultResumeService = "systemd-hibernate-resume.service"
	SysinitTarget        = "sysinit.target"

	fallbackTimeoutPriority = 40
	deviceTimeoutPriority   = 50
	dependencyPriority      = 90

	// Timeouts of the device job when none was configured. resume= on the
	// command line is an explicit request and is waited for forever, the
	// EFI variable may be stale so boot only stalls for a while.
	cmdlineDeviceTimeout = "infinity"
	efiDeviceTimeout     = "2min"
)

var ErrNotConfigured = errors.New("generator is not fully configured")

// Warning is a problem that was logged and worked around.
type Warning struct {
	msg string
}

func newWarning(format string, args ...interface{}) *Warning {
	return &Warning{msg: fmt.Sprintf(format, args...)}
}

func (w *Warning) Error() string {
	return w.msg
}

// CmdlineFunc returns the raw kernel command line.
type CmdlineFunc func() (string, error)

// AcquireFunc looks up the hibernation info. It returns
// hibernate.ErrNoDevice if there is nothing to resume from.
type AcquireFunc func(params []cmdline.Param) (*hibernate.Info, error)

// DeviceTimeoutFunc extracts an explicit device timeout from mount style
// options: the value and true, false if there is none, or an error.
type DeviceTimeoutFunc func(opts string) (string, bool, error)

// Generator holds the inputs of a single generator run. Dest, DestEarly
// and DestLate are the three output directories handed to generators;
// only Dest is written to.
type Generator struct {
	Dest      string
	DestEarly string
	DestLate  string

	ResumeService string

	Env           environment.Environment
	Cmdline       CmdlineFunc
	Acquire       AcquireFunc
	DeviceTimeout DeviceTimeoutFunc

	Logger logrus.FieldLogger
}

func (g *Generator) init() error {
	if g.Dest == "" || g.Env == nil || g.Cmdline == nil || g.Acquire == nil {
		return ErrNotConfigured
	}
	if g.ResumeService == "" {
		g.ResumeService = DefaultResumeService
	}
	if g.DeviceTimeout == nil {
		g.DeviceTimeout = fstab.DeviceTimeout
	}
	if g.Logger == nil {
		g.Logger = logrus.StandardLogger()
	}
	return nil
}

// Result is the outcome of Run.
type Result struct {
	Decision
	// Emission is nil unless the decision was to proceed.
	Emission *Emission
}

// Warnings returns every warning of the run, or nil.
func (r *Result) Warnings() error {
	var all *multierror.Error
	if r.Decision.Warnings != nil {
		all = multierror.Append(all, r.Decision.Warnings)
	}
	if r.Emission != nil && r.Emission.Warnings != nil {
		all = multierror.Append(all, r.Emission.Warnings)
	}
	return all.ErrorOrNil()
}

// Run decides whether to resume and writes the unit configuration if so.
// Skipping is not an error; the error return is reserved for failures
// that leave the resume service without its dependencies.
func (g *Generator) Run() (*Result, error) {
	if err := g.init(); err != nil {
		return nil, err
	}

	opts := NewOptions(g.Logger)
	decision, err := g.Decide(opts)
	result := &Result{Decision: decision}
	if err != nil || !decision.Proceed() {
		return result, err
	}

	result.Emission, err = g.Emit(opts, decision.Info)
	return result, err
}
