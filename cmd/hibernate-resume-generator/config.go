package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
	"github.com/osbuild/hibernate-resume-generator/internal/common"
	"github.com/osbuild/hibernate-resume-generator/internal/environment"
	"github.com/osbuild/hibernate-resume-generator/internal/generator"
	"github.com/osbuild/hibernate-resume-generator/internal/hibernate"
)

const defaultConfigPath = "/etc/hibernate-resume-generator/config.toml"

const (
	logTargetAuto    = "auto"
	logTargetJournal = "journal"
	logTargetConsole = "console"
)

type pathsConfig struct {
	ProcCmdline   string `toml:"proc_cmdline"`
	InitrdRelease string `toml:"initrd_release"`
	EFIVars       string `toml:"efivarfs"`
	OSRelease     string `toml:"os_release"`
}

type generatorConfig struct {
	LogLevel      string      `toml:"log_level"`
	LogTarget     string      `toml:"log_target"`
	ResumeService string      `toml:"resume_service"`
	Paths         pathsConfig `toml:"paths"`
}

func defaultConfig() *generatorConfig {
	return &generatorConfig{
		LogLevel:      "info",
		LogTarget:     logTargetAuto,
		ResumeService: generator.DefaultResumeService,
		Paths: pathsConfig{
			ProcCmdline:   cmdline.DefaultPath,
			InitrdRelease: environment.DefaultInitrdReleasePath,
			EFIVars:       hibernate.DefaultEFIVarsDir,
			OSRelease:     hibernate.DefaultOSReleasePath,
		},
	}
}

func validLogTarget(target string) bool {
	switch target {
	case logTargetAuto, logTargetJournal, logTargetConsole:
		return true
	}
	return false
}

func parseConfig(file string) (*generatorConfig, error) {
	config := defaultConfig()

	_, err := toml.DecodeFile(file, config)
	if err != nil {
		// A non-existing config isn't an error, use defaults in this case.
		if !os.IsNotExist(err) {
			return nil, err
		}

		logrus.Debug("Configuration file not found, using defaults")
	}

	if _, err := common.ParseLogLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log_level: %w", err)
	}
	if !validLogTarget(config.LogTarget) {
		return nil, fmt.Errorf("log_target needs to be %s, %s or %s. Got: %s", logTargetAuto, logTargetJournal, logTargetConsole, config.LogTarget)
	}
	if config.ResumeService == "" {
		return nil, fmt.Errorf("resume_service must not be empty")
	}

	return config, nil
}
