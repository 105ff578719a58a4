// Package cmd builds braid's command-line surface: the cobra root command
// spec.md §6.1 describes (a single command, no subcommands), layered atop
// internal/config and internal/app the way the teacher's cmd/h2/main.go
// layers its much larger subcommand tree atop internal/session.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pashenkov/braid/internal/app"
	"github.com/pashenkov/braid/internal/config"
	"github.com/pashenkov/braid/internal/version"
)

// NewRootCmd builds the root command. Execute returning a non-nil error
// means the process should exit 1; a successful run calls os.Exit itself
// with the agent's own exit code when one is available.
func NewRootCmd() *cobra.Command {
	var resumeFlag string
	var restoreFlag string
	var sessionName string

	root := &cobra.Command{
		Use:           "braid [command] [-- args...]",
		Short:         "A tiled terminal multiplexer for coordinating AI coding agents",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resumeTarget := resumeFlag
			if restoreFlag != "" {
				resumeTarget = restoreFlag
			}

			initialCommand, extraArgv := splitCommandArgs(cmd, args)

			dir, err := config.ResolveDir()
			if err != nil {
				return fmt.Errorf("braid: %w", err)
			}
			cfg, err := config.Load(config.ConfigFilePath(dir))
			if err != nil {
				return fmt.Errorf("braid: %w", err)
			}

			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("braid: %w", err)
			}

			if sessionName == "" {
				sessionName = config.EnvString("SESSION_NAME", "Main")
			}

			a, err := app.New(app.Options{
				Config:         cfg,
				SessionName:    sessionName,
				ResumeTarget:   resumeTarget,
				InitialCommand: initialCommand,
				InitialArgv:    extraArgv,
				CWD:            cwd,
			})
			if err != nil {
				return err
			}

			code, err := a.Run()
			if err != nil {
				return err
			}
			if code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	root.Flags().StringVarP(&resumeFlag, "resume", "r", "", `resume a saved session by id, name, or "latest"`)
	root.Flags().StringVar(&restoreFlag, "restore", "", "alias for --resume")
	root.Flags().StringVarP(&sessionName, "session", "s", "", "name this session (default: $SESSION_NAME or \"Main\")")
	root.Flags().SortFlags = false

	return root
}

// splitCommandArgs separates the positional args cobra hands RunE into the
// agent command named before "--" and the extra argv passed through after
// it, per spec.md §6.1. A bare "--" with nothing before it leaves the
// command empty, falling back to the first configured default agent.
func splitCommandArgs(cmd *cobra.Command, args []string) (command string, extraArgv []string) {
	dash := cmd.ArgsLenAtDash()
	before, after := args, []string(nil)
	if dash >= 0 {
		before, after = args[:dash], args[dash:]
	}
	if len(before) > 0 {
		command = before[0]
	}
	return command, after
}
