// Package environment answers questions about the context the generator
// runs in.
package environment

// Environment describes the boot phase the generator was started in.
type Environment interface {
	// InInitrd reports whether we run inside the initrd.
	InInitrd() bool
	// SoftRebooted reports whether this boot is a soft-reboot
	// continuation rather than a fresh start of the machine.
	SoftRebooted() bool
}

// Static is an Environment with fixed answers.
type Static struct {
	Initrd     bool
	SoftReboot bool
}

func (s Static) InInitrd() bool {
	return s.Initrd
}

func (s Static) SoftRebooted() bool {
	return s.SoftReboot
}
