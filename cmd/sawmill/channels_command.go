package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"sawmill/internal/config"
	"sawmill/internal/logging"
	"sawmill/internal/persist"
)

var errPersistenceDisabled = errors.New("persistence is disabled; enable it in the [persistence] section to manage saved channel levels")

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Inspect and edit saved channel levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return listChannels(cmd, cfg)
		},
	}

	channelsCmd.AddCommand(newChannelsSetCommand(ctx))
	channelsCmd.AddCommand(newChannelsForgetCommand(ctx))

	return channelsCmd
}

func listChannels(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	// Configured overrides apply on every run regardless of persistence.
	if overrides := cfg.ChannelLevels(); len(overrides) > 0 {
		names := make([]string, 0, len(overrides))
		for name := range overrides {
			names = append(names, name)
		}
		sort.Strings(names)
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, overrides[name].String()})
		}
		fmt.Fprintln(out, "Configured overrides:")
		fmt.Fprintln(out, renderTable([]string{"Channel", "Level"}, rows))
	}

	if !cfg.Persistence.Enabled {
		fmt.Fprintln(out, "Persistence is disabled; no saved channel levels.")
		return nil
	}

	store, err := persist.Open(cfg.Persistence.Path)
	if err != nil {
		return fmt.Errorf("open level database: %w", err)
	}
	defer store.Close()

	levels, err := store.Levels()
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		fmt.Fprintln(out, "No saved channel levels.")
		return nil
	}

	rows := make([][]string, 0, len(levels))
	for _, saved := range levels {
		updated := ""
		if !saved.UpdatedAt.IsZero() {
			updated = saved.UpdatedAt.Local().Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{saved.Name, saved.Level.String(), updated})
	}
	fmt.Fprintln(out, "Saved levels:")
	fmt.Fprintln(out, renderTable([]string{"Channel", "Level", "Updated"}, rows))
	return nil
}

func newChannelsSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <channel> <level>",
		Short: "Save a channel's minimum level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Persistence.Enabled {
				return errPersistenceDisabled
			}

			level, ok := logging.ParseLevel(args[1])
			if !ok {
				return fmt.Errorf("unknown level %q (disabled, trace, debug, info, warning, error)", args[1])
			}

			store, err := persist.Open(cfg.Persistence.Path)
			if err != nil {
				return fmt.Errorf("open level database: %w", err)
			}
			defer store.Close()

			store.SaveChannelLevel(args[0], level)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s = %s\n", args[0], level)
			return nil
		},
	}
}

func newChannelsForgetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <channel>",
		Short: "Remove a channel's saved level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Persistence.Enabled {
				return errPersistenceDisabled
			}

			store, err := persist.Open(cfg.Persistence.Path)
			if err != nil {
				return fmt.Errorf("open level database: %w", err)
			}
			defer store.Close()

			removed, err := store.Forget(args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "No saved level for %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", args[0])
			return nil
		},
	}
}
