package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"studyload/models"
	"studyload/workload"
)

func riskCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Show a user's burnout risk and recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			u, err := b.GetUserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}
			engine := workload.NewEngine(b, time.Now, cfg.Location())
			report, err := engine.BurnoutRisk(ctx, u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRisk(u, report, workload.Recommendations(report.Tier)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email of the user to report on")
	cmd.MarkFlagRequired("email")
	return cmd
}

func collisionsCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "collisions",
		Short: "List dates where a user has more than one deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			u, err := b.GetUserByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}
			engine := workload.NewEngine(b, time.Now, cfg.Location())
			collisions, err := engine.DetectCollisions(ctx, u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCollisions(collisions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "email of the user to report on")
	cmd.MarkFlagRequired("email")
	return cmd
}

func renderRisk(u models.User, r models.RiskReport, recs []string) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Burnout risk for "+u.Username) + "\n")
	tier := tierStyles[string(r.Tier)].Render(string(r.Tier))
	fmt.Fprintf(&sb, "Tier: %s  (score %d/%d)\n", tier, r.Score, workload.MaxScore)
	fmt.Fprintf(&sb, "Tasks: %d total, %d due this week, %dh due this week\n", r.TotalTasks, r.TasksDueWeek, r.HoursDueWeek)

	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		lines = append(lines, "• "+rec)
	}
	sb.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	return sb.String()
}

func renderCollisions(c workload.Collisions) string {
	if len(c) == 0 {
		return mutedStyle.Render("No deadline collisions.")
	}

	var sb strings.Builder
	for i, date := range c.Dates() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(dateStyle.Render(date) + "\n")
		for _, t := range c[date] {
			label := t.Title
			if t.Kind == models.KindGroup && t.GroupName != "" {
				label += mutedStyle.Render(" [" + t.GroupName + "]")
			}
			fmt.Fprintf(&sb, "  %s  %dh %s\n", label, t.EstimatedHours, mutedStyle.Render(string(t.Priority)))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
