package environment

func (h *Host) MockEnv(env map[string]string) {
	h.lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func (h *Host) MockAccess(access func(path string, mode uint32) error) {
	h.access = access
}
