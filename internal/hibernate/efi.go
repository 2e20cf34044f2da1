package hibernate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

const (
	DefaultEFIVarsDir = "/sys/firmware/efi/efivars"

	// vendor GUID of the variables owned by the service manager
	efiSystemdVendor = "8cf2644b-4b0b-428f-9387-6d876050dc67"
	locationVariable = "HibernateLocation-" + efiSystemdVendor

	// efivarfs prefixes the payload with the variable attributes
	efiAttributesSize = 4
)

type efiLocationJSON struct {
	UUID          string `json:"uuid"`
	Offset        uint64 `json:"offset"`
	KernelVersion string `json:"kernelVersion"`
	ID            string `json:"osReleaseId"`
	ImageID       string `json:"osReleaseImageId"`
	VersionID     string `json:"osReleaseVersionId"`
	ImageVersion  string `json:"osReleaseImageVersion"`
}

func parseEFILocation(data []byte) (*EFILocation, error) {
	if len(data) < efiAttributesSize {
		return nil, fmt.Errorf("variable is %d bytes, too short", len(data))
	}

	var raw efiLocationJSON
	if err := json.Unmarshal(data[efiAttributesSize:], &raw); err != nil {
		return nil, fmt.Errorf("cannot parse variable as JSON: %w", err)
	}

	if raw.UUID == "" {
		return nil, errors.New("variable lacks the uuid field")
	}
	id, err := uuid.Parse(raw.UUID)
	if err != nil {
		return nil, fmt.Errorf("invalid uuid %q: %w", raw.UUID, err)
	}

	return &EFILocation{
		Device:        "/dev/disk/by-uuid/" + id.String(),
		UUID:          id,
		Offset:        raw.Offset,
		KernelVersion: raw.KernelVersion,
		ID:            raw.ID,
		ImageID:       raw.ImageID,
		VersionID:     raw.VersionID,
		ImageVersion:  raw.ImageVersion,
	}, nil
}

func kernelRelease() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", err
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// readEFILocation returns the HibernateLocation variable if it exists and
// belongs to the running system. Problems with the variable are logged and
// the variable is ignored.
func (s *Source) readEFILocation() *EFILocation {
	path := filepath.Join(s.EFIVarsDir, locationVariable)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.Logger.Debug("HibernateLocation EFI variable not found.")
		return nil
	}
	if err != nil {
		s.Logger.Warnf("Failed to read HibernateLocation EFI variable, ignoring: %v", err)
		return nil
	}

	location, err := parseEFILocation(data)
	if err != nil {
		s.Logger.Warnf("Failed to parse HibernateLocation EFI variable, ignoring: %v", err)
		return nil
	}

	if location.KernelVersion != "" {
		release, err := s.kernelRelease()
		if err != nil {
			s.Logger.Warnf("Failed to get the running kernel release, ignoring HibernateLocation EFI variable: %v", err)
			return nil
		}
		if release != location.KernelVersion {
			s.Logger.Infof("HibernateLocation EFI variable is for kernel %s but %s is running, not resuming from it.", location.KernelVersion, release)
			return nil
		}
	}

	osrelease, err := s.readOSRelease(s.OSReleasePath)
	if err != nil {
		s.Logger.Warnf("Failed to read %s, ignoring HibernateLocation EFI variable: %v", s.OSReleasePath, err)
		return nil
	}
	if osrelease["ID"] != location.ID || osrelease["IMAGE_ID"] != location.ImageID {
		s.Logger.Infof("HibernateLocation EFI variable does not belong to the running system, not resuming from it.")
		return nil
	}
	if osrelease["VERSION_ID"] != location.VersionID || osrelease["IMAGE_VERSION"] != location.ImageVersion {
		s.Logger.Infof("HibernateLocation EFI variable was written by a different system version, resuming anyway.")
	}

	return location
}
