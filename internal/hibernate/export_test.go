package hibernate

const LocationVariable = locationVariable

func (s *Source) MockKernelRelease(release string, err error) {
	s.kernelRelease = func() (string, error) {
		return release, err
	}
}

func (s *Source) MockOSRelease(osrelease map[string]string, err error) {
	s.readOSRelease = func(string) (map[string]string, error) {
		return osrelease, err
	}
}
