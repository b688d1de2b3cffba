// Package notify delivers reminder digests for tasks that are due soon.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"studyload/models"
)

// Recipients lists every account that may receive a digest.
type Recipients interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// ReminderSource selects the unreminded tasks due soon for a user.
type ReminderSource interface {
	Reminders(ctx context.Context, userID uuid.UUID) ([]models.Task, error)
}

// Marker flags a task as reminded once its digest went out.
type Marker interface {
	MarkReminderSent(ctx context.Context, actor uuid.UUID, ref models.TaskRef) error
}

type Mailer interface {
	Send(ctx context.Context, to models.User, subject, text, html string) error
}

type Notifier struct {
	users     Recipients
	reminders ReminderSource
	marker    Marker
	mailer    Mailer
}

func NewNotifier(users Recipients, reminders ReminderSource, marker Marker, mailer Mailer) *Notifier {
	return &Notifier{users: users, reminders: reminders, marker: marker, mailer: mailer}
}

// Summary counts what a run did.
type Summary struct {
	Users    int
	Emails   int
	Tasks    int
	Failures int
}

// SendAll mails each user one digest of their pending reminders and marks the
// included tasks. A task is only marked after its digest was accepted, so a
// failed send is retried on the next run. Group tasks share one reminder flag,
// so they are marked after every member has been processed, and only when no
// member's digest containing them failed.
func (n *Notifier) SendAll(ctx context.Context) (Summary, error) {
	var sum Summary

	users, err := n.users.ListUsers(ctx)
	if err != nil {
		return sum, fmt.Errorf("list users: %w", err)
	}
	sum.Users = len(users)

	shared := newGroupMarks()
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		due, err := n.deliver(ctx, u)
		if err != nil {
			log.Printf("reminder digest for %s failed: %v", u.Email, err)
			sum.Failures++
			for _, t := range due {
				if t.Kind == models.KindGroup {
					shared.block(t.Ref())
				}
			}
			continue
		}
		if len(due) == 0 {
			continue
		}
		sum.Emails++
		for _, t := range due {
			if t.Kind == models.KindGroup {
				shared.add(t.Ref(), u.ID)
				continue
			}
			if n.mark(ctx, u.ID, t.Ref()) {
				sum.Tasks++
			}
		}
	}

	for _, p := range shared.ready() {
		if n.mark(ctx, p.actor, p.ref) {
			sum.Tasks++
		}
	}
	return sum, nil
}

// Delivery reports what SendTo did for one user.
type Delivery struct {
	Sent   bool
	Marked int
}

// SendTo mails one user their digest and marks every task it covered.
func (n *Notifier) SendTo(ctx context.Context, u models.User) (Delivery, error) {
	var d Delivery
	due, err := n.deliver(ctx, u)
	if err != nil {
		return d, err
	}
	d.Sent = len(due) > 0
	for _, t := range due {
		if n.mark(ctx, u.ID, t.Ref()) {
			d.Marked++
		}
	}
	return d, nil
}

// deliver selects and mails a user's digest. The selected tasks are returned
// even when the send fails.
func (n *Notifier) deliver(ctx context.Context, u models.User) ([]models.Task, error) {
	due, err := n.reminders.Reminders(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("select reminders: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	subject, text, html := Digest(u, due)
	if err := n.mailer.Send(ctx, u, subject, text, html); err != nil {
		return due, fmt.Errorf("send digest: %w", err)
	}
	return due, nil
}

func (n *Notifier) mark(ctx context.Context, actor uuid.UUID, ref models.TaskRef) bool {
	if err := n.marker.MarkReminderSent(ctx, actor, ref); err != nil {
		log.Printf("mark %s task %d reminded: %v", ref.Kind, ref.ID, err)
		return false
	}
	return true
}

type groupMark struct {
	ref     models.TaskRef
	actor   uuid.UUID
	mailed  bool
	blocked bool
}

// groupMarks tracks shared group tasks across a run in first-seen order.
type groupMarks struct {
	order []models.TaskRef
	byRef map[models.TaskRef]*groupMark
}

func newGroupMarks() *groupMarks {
	return &groupMarks{byRef: make(map[models.TaskRef]*groupMark)}
}

func (g *groupMarks) get(ref models.TaskRef) *groupMark {
	m, ok := g.byRef[ref]
	if !ok {
		m = &groupMark{ref: ref}
		g.byRef[ref] = m
		g.order = append(g.order, ref)
	}
	return m
}

func (g *groupMarks) add(ref models.TaskRef, actor uuid.UUID) {
	m := g.get(ref)
	if !m.mailed {
		m.mailed = true
		m.actor = actor
	}
}

func (g *groupMarks) block(ref models.TaskRef) {
	g.get(ref).blocked = true
}

func (g *groupMarks) ready() []groupMark {
	var out []groupMark
	for _, ref := range g.order {
		if m := g.byRef[ref]; m.mailed && !m.blocked {
			out = append(out, *m)
		}
	}
	return out
}
