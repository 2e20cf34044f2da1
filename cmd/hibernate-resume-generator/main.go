package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/osbuild/hibernate-resume-generator/internal/cmdline"
	"github.com/osbuild/hibernate-resume-generator/internal/environment"
	"github.com/osbuild/hibernate-resume-generator/internal/generator"
	"github.com/osbuild/hibernate-resume-generator/internal/hibernate"
)

// generators run without arguments when started by hand
const defaultDest = "/tmp"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hibernate-resume-generator [NORMAL-DIR EARLY-DIR LATE-DIR]",
	Short: "Order the hibernation resume service after the resume device",
	Long: "Decides in the initrd whether the system resumes from hibernation and, if so,\n" +
		"writes drop-ins and a sysinit.target dependency for the resume service.",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("this program takes zero or three arguments, got %d", len(args))
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerator,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "configuration file")
}

func runGenerator(cmd *cobra.Command, args []string) error {
	config, err := parseConfig(configPath)
	if err != nil {
		return fmt.Errorf("could not load config file '%s': %w", configPath, err)
	}

	logger := logrus.StandardLogger()
	setupLogging(logger, config)

	dest, destEarly, destLate := defaultDest, defaultDest, defaultDest
	if len(args) == 3 {
		dest, destEarly, destLate = args[0], args[1], args[2]
	}

	source := hibernate.NewSource(config.Paths.EFIVars, config.Paths.OSRelease, logger)
	g := &generator.Generator{
		Dest:          dest,
		DestEarly:     destEarly,
		DestLate:      destLate,
		ResumeService: config.ResumeService,
		Env:           environment.NewHost(config.Paths.InitrdRelease, logger),
		Cmdline: func() (string, error) {
			return cmdline.Load(config.Paths.ProcCmdline)
		},
		Acquire: source.Acquire,
		Logger:  logger,
	}

	result, err := g.Run()
	if err != nil {
		return err
	}

	entry := logger.WithField("skip", result.Skip.String())
	if result.Emission != nil {
		entry = entry.WithField("written", len(result.Emission.Written))
	}
	entry.Debug("Generator finished.")
	return nil
}

var run = func() int {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run())
}
