package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pharmapos/m/domain"
)

// Sender delivers a rendered notification to a recipient. The real delivery
// channel lives outside this service; a failed send only returns false.
type Sender func(recipient, subject, htmlBody string) bool

// LogSender is the default Sender: it records the notification and reports
// success without delivering anything.
func LogSender(recipient, subject, htmlBody string) bool {
	log.Printf("notification for %s: %s", recipient, subject)
	return true
}

// Dispatcher sends low-stock alerts after a sale has committed. Dispatch is
// fire-and-forget: it runs detached from the request and never influences
// the sale's outcome.
type Dispatcher struct {
	db      *sqlx.DB
	send    Sender
	timeout time.Duration
}

func NewDispatcher(db *sqlx.DB, send Sender) *Dispatcher {
	return &Dispatcher{db: db, send: send, timeout: 10 * time.Second}
}

// LowStock dispatches threshold-crossing alerts for the user asynchronously.
// It returns immediately; delivery failures are logged and otherwise ignored.
func (d *Dispatcher) LowStock(userID int64, alerts []domain.ThresholdAlert) {
	if len(alerts) == 0 || d.send == nil {
		return
	}
	go d.dispatch(userID, alerts)
}

func (d *Dispatcher) dispatch(userID int64, alerts []domain.ThresholdAlert) {
	// Detached from the request context: the sale is already committed.
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var email string
	if err := d.db.GetContext(ctx, &email, `SELECT email FROM users WHERE id = ?`, userID); err != nil {
		log.Printf("unable to resolve alert recipient for user %d: %v", userID, err)
		return
	}

	if !d.send(email, "Low stock alert", renderLowStock(alerts)) {
		log.Printf("low stock alert delivery failed for user %d", userID)
	}
}

func renderLowStock(alerts []domain.ThresholdAlert) string {
	var b strings.Builder
	b.WriteString("<p>The following medicines crossed their low-stock threshold:</p><ul>")
	for _, a := range alerts {
		fmt.Fprintf(&b, "<li>%s: %d remaining</li>", a.Name, a.Remaining)
	}
	b.WriteString("</ul>")
	return b.String()
}
