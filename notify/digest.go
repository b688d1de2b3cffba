package notify

import (
	"fmt"
	"html"
	"strings"

	"studyload/models"
)

// Digest renders the subject, plain text and HTML body for a reminder mail.
func Digest(u models.User, due []models.Task) (subject, text, htmlBody string) {
	if len(due) == 1 {
		subject = "1 task due soon"
	} else {
		subject = fmt.Sprintf("%d tasks due soon", len(due))
	}

	var tb, hb strings.Builder
	fmt.Fprintf(&tb, "Hi %s,\n\nThese tasks are due within the next few days:\n\n", u.Username)
	fmt.Fprintf(&hb, "<p>Hi %s,</p><p>These tasks are due within the next few days:</p><ul>", html.EscapeString(u.Username))
	for _, t := range due {
		line := fmt.Sprintf("%s (%s, %dh, %s priority)", t.Title, t.DeadlineKey(), t.EstimatedHours, t.Priority)
		if t.Kind == models.KindGroup && t.GroupName != "" {
			line += " for " + t.GroupName
		}
		fmt.Fprintf(&tb, "- %s\n", line)
		fmt.Fprintf(&hb, "<li>%s</li>", html.EscapeString(line))
	}
	hb.WriteString("</ul>")

	return subject, tb.String(), hb.String()
}
