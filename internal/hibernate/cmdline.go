package hibernate

import (
	"fmt"
	"strconv"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
	"github.com/osbuild/hibernate-resume-generator/internal/fstab"
)

// parseCmdline picks resume= and resume_offset= from params. The last
// occurrence of each wins. It returns nil if resume= is absent.
func (s *Source) parseCmdline(params []cmdline.Param) (*CmdlineConfig, error) {
	var device string
	var offset uint64
	offsetSet := false

	for _, p := range params {
		switch {
		case cmdline.KeyEqual(p.Key, "resume"):
			if cmdline.ValueMissing(s.Logger, p) || p.Value == "" {
				continue
			}
			device = fstab.NodeToUdevNode(p.Value)

		case cmdline.KeyEqual(p.Key, "resume_offset"):
			if cmdline.ValueMissing(s.Logger, p) {
				continue
			}
			v, err := strconv.ParseUint(p.Value, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse resume_offset=%s: %w", p.Value, err)
			}
			offset, offsetSet = v, true
		}
	}

	if device == "" {
		if offsetSet {
			s.Logger.Warn("resume_offset= is set without resume=, ignoring.")
		}
		return nil, nil
	}

	return &CmdlineConfig{
		Device: device,
		Offset: offset,
	}, nil
}
