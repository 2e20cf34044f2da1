package main

var (
	ParseConfig   = parseConfig
	DefaultConfig = defaultConfig
	SetupLogging  = setupLogging
	RootCmd       = rootCmd
	Run           = run
)

type GeneratorConfig = generatorConfig

func MockJournalEnabled(enabled bool) (restore func()) {
	saved := journalEnabled
	journalEnabled = func() bool {
		return enabled
	}
	return func() {
		journalEnabled = saved
	}
}

func MockEnv(env map[string]string) (restore func()) {
	saved := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	return func() {
		lookupEnv = saved
	}
}

func ResetConfigPath() {
	configPath = defaultConfigPath
}
