package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"foldersort/internal/config"
	"foldersort/internal/rules"
)

type rulesOutput struct {
	Source    string           `json:"source"`
	Rules     []rules.Rule     `json:"rules"`
	Conflicts []rules.Conflict `json:"conflicts,omitempty"`
}

func newRulesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the resolved rule table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table, err := cfg.RuleTable()
			if err != nil {
				return err
			}
			payload := rulesOutput{
				Source:    ruleSource(cfg),
				Rules:     table.Rules(),
				Conflicts: table.Conflicts(),
			}
			if jsonOutput {
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rules from %s\n", payload.Source)
			rows := make([][]string, 0, len(payload.Rules))
			for i, rule := range payload.Rules {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					rule.Category,
					strings.Join(rule.Extensions, " "),
				})
			}
			fmt.Fprintln(out, tableView{
				headers: []string{"#", "Category", "Extensions"},
				rows:    rows,
				aligns:  []columnAlignment{alignRight, alignLeft, alignLeft},
			}.render())

			colorize := shouldColorize(out)
			for _, conflict := range payload.Conflicts {
				msg := fmt.Sprintf("also listed under %s, always goes to %s",
					strings.Join(conflict.Shadowed, ", "), conflict.Winner)
				fmt.Fprintln(out, renderStatusLine(conflict.Extension, statusWarn, msg, colorize))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the rule table as JSON")
	return cmd
}

func ruleSource(cfg *config.Config) string {
	switch {
	case strings.TrimSpace(cfg.Organize.RulesFile) != "":
		return cfg.Organize.RulesFile
	case len(cfg.Rules) > 0:
		return "config [[rules]]"
	default:
		return "built-in defaults"
	}
}
