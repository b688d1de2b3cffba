package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studyload/notify"
	"studyload/tasks"
	"studyload/workload"
)

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Email every user a digest of tasks due soon and mark them reminded",
		Long: `Send each user one email listing their unreminded tasks due within the
next few days, then mark those tasks as reminded.

Without SENDGRID_API_KEY the digests are written to the log instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, b, err := openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			var mailer notify.Mailer = notify.LogMailer{}
			if cfg.SendGridAPIKey != "" {
				mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
			}

			engine := workload.NewEngine(b, time.Now, cfg.Location())
			n := notify.NewNotifier(b, engine, tasks.NewService(b), mailer)
			sum, err := n.SendAll(ctx)
			if err != nil {
				return err
			}

			line := fmt.Sprintf("%d users checked, %d emails sent, %d tasks marked", sum.Users, sum.Emails, sum.Tasks)
			if sum.Failures > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), errorStyle.Render(fmt.Sprintf("%s, %d failed", line, sum.Failures)))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(line))
			return nil
		},
	}
}
