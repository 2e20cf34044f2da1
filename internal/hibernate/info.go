// Package hibernate finds out where the hibernation image of the previous
// boot lives.
package hibernate

import (
	"errors"

	"github.com/google/uuid"
)

// ErrNoDevice is returned by Acquire when neither the kernel command line
// nor the firmware point at a hibernation image. This is the normal case
// on a regular boot.
var ErrNoDevice = errors.New("no resume device found")

// CmdlineConfig is what resume= and resume_offset= asked for.
type CmdlineConfig struct {
	Device string
	Offset uint64
}

// EFILocation is the HibernateLocation EFI variable written by the system
// that went into hibernation.
type EFILocation struct {
	Device string
	UUID   uuid.UUID
	Offset uint64

	KernelVersion string
	ID            string
	ImageID       string
	VersionID     string
	ImageVersion  string
}

// Info describes the device to resume from.
type Info struct {
	Device string
	Offset uint64

	// Cmdline is set when resume= was given on the kernel command line.
	Cmdline *CmdlineConfig
	// EFI is set when a matching HibernateLocation variable was found.
	EFI *EFILocation
}
