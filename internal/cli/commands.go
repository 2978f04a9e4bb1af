package cli

import (
	"fmt"

	"github.com/chzyer/readline"
	"github.com/richinsley/namedsem"
	"github.com/richinsley/namedsem/internal/config"
	"github.com/richinsley/namedsem/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// BuildInfo is printed by the version command.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitHash   string
}

type app struct {
	settings config.Settings
}

// NewRootCommand builds the semctl command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "semctl",
		Short:        "Post to and wait on POSIX named semaphores",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "semctl.yml", "Path to config file")
	flags.String("options", "", "Open options, e.g. create|read|write (overrides config)")
	flags.String("mode", "", "Access mode for a created semaphore, e.g. 0600 or rw------- (overrides config)")
	flags.Uint32("initial", 0, "Initial count for a created semaphore (overrides config)")
	flags.String("log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "semctl version %s\nbuild time: %s\nhash: %s\n",
				info.Version, info.BuildTime, info.GitHash)
		},
	})

	openCmd := &cobra.Command{
		Use:   "open NAME",
		Short: "Open (creating if requested) a semaphore and close it again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sem, err := a.open(args[0])
			if err != nil {
				return err
			}
			return sem.Close()
		},
	}
	rootCmd.AddCommand(openCmd)

	postCmd := &cobra.Command{
		Use:   "post NAME",
		Short: "Increment a semaphore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := countFlag(cmd)
			if err != nil {
				return err
			}
			sem, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer sem.Close()

			if err := Post(cmd.Context(), sem, count); err != nil {
				return err
			}
			logger.Info("posted", zap.String("name", args[0]), zap.Int("count", count))
			return nil
		},
	}
	postCmd.Flags().IntP("count", "n", 1, "Number of posts")
	rootCmd.AddCommand(postCmd)

	waitCmd := &cobra.Command{
		Use:   "wait NAME",
		Short: "Decrement a semaphore, blocking while it is zero",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := countFlag(cmd)
			if err != nil {
				return err
			}
			retry, _ := cmd.Flags().GetBool("retry-interrupted")
			sem, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer sem.Close()

			if err := Wait(cmd.Context(), sem, count, retry); err != nil {
				return err
			}
			logger.Info("acquired", zap.String("name", args[0]), zap.Int("count", count))
			return nil
		},
	}
	waitCmd.Flags().IntP("count", "n", 1, "Number of waits")
	waitCmd.Flags().Bool("retry-interrupted", false, "Retry waits interrupted by a signal")
	rootCmd.AddCommand(waitCmd)

	shellCmd := &cobra.Command{
		Use:   "shell NAME",
		Short: "Interactively post to and wait on a semaphore",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			retry, _ := cmd.Flags().GetBool("retry-interrupted")
			sem, err := a.open(args[0])
			if err != nil {
				return err
			}
			defer sem.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          args[0] + "> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return err
			}
			return Shell(cmd.Context(), rl, sem, retry)
		},
	}
	shellCmd.Flags().Bool("retry-interrupted", false, "Retry waits interrupted by a signal")
	rootCmd.AddCommand(shellCmd)

	return rootCmd
}

// countFlag reads --count, which must be at least 1 as in the shell.
func countFlag(cmd *cobra.Command) (int, error) {
	count, _ := cmd.Flags().GetInt("count")
	if count < 1 {
		return 0, fmt.Errorf("%s: invalid count %d", cmd.Name(), count)
	}
	return count, nil
}

// setup loads the config file, applies flag overrides and starts logging.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	cfg, err := config.GetConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	if cfg.Semaphore == nil {
		cfg.Semaphore = &config.SemaphoreConfig{}
	}
	if cfg.Logging == nil {
		cfg.Logging = &config.LoggingConfig{}
	}
	if flags.Changed("options") {
		cfg.Semaphore.Options, _ = flags.GetString("options")
		if cfg.Semaphore.Options == "" {
			cfg.Semaphore.Options = "none"
		}
	}
	if flags.Changed("mode") {
		cfg.Semaphore.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("initial") {
		cfg.Semaphore.Initial, _ = flags.GetUint32("initial")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	settings, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.settings = settings

	if err := logger.InitLogger(settings.LogLevel, settings.LogDir); err != nil {
		return err
	}
	namedsem.SetLogger(logger.L())
	return nil
}

func (a *app) open(name string) (*namedsem.Semaphore, error) {
	sem, err := namedsem.Open(name, a.settings.Options, a.settings.Mode, a.settings.Initial)
	if err != nil {
		return nil, err
	}
	logger.Debug("semaphore opened",
		zap.String("name", name),
		zap.Stringer("options", a.settings.Options),
		zap.Stringer("mode", a.settings.Mode),
		zap.Uint32("initial", a.settings.Initial))
	return sem, nil
}
