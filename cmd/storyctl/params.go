package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Inspect or change generation parameters",
}

var paramsGetCmd = &cobra.Command{
	Use:   "get [KEY...]",
	Short: "Print the effective parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		snapshot, err := s.app.Parameters.Snapshot(ctx)
		if err != nil {
			return err
		}
		printParams(cmd, snapshot, args)
		return nil
	},
}

var paramsSetCmd = &cobra.Command{
	Use:   "set KEY=VALUE...",
	Short: "Store one or more parameters",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updates, err := parseAssignments(args)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		s, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		snapshot, err := s.app.Parameters.Set(ctx, updates)
		if err != nil {
			return err
		}
		console.Info().Int("count", len(updates)).Msg("Parameters updated")
		printParams(cmd, snapshot, nil)
		return nil
	},
}

func init() {
	paramsCmd.AddCommand(paramsGetCmd, paramsSetCmd)
	rootCmd.AddCommand(paramsCmd)
}

// parseAssignments turns KEY=VALUE arguments into a parameter update.
// Values stay strings; the parameter store keeps everything as text anyway.
func parseAssignments(args []string) (map[string]any, error) {
	updates := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected KEY=VALUE, got %q", arg)
		}
		updates[key] = value
	}
	return updates, nil
}

func printParams(cmd *cobra.Command, snapshot map[string]string, only []string) {
	keys := only
	if len(keys) == 0 {
		keys = make([]string, 0, len(snapshot))
		for k := range snapshot {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	for _, k := range keys {
		v, ok := snapshot[k]
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(unset)\n", k)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, v)
	}
}
