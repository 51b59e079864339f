package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/school-leave/internal/application/dispatcher"
	"github.com/garyjia/school-leave/internal/application/port"
	"github.com/garyjia/school-leave/internal/domain/calendar"
	"github.com/garyjia/school-leave/internal/domain/event"
)

// NewRequestTitle heads every new-request notification
const NewRequestTitle = "มีคำขอลาใหม่"

// ReviewerNotifier tells reviewers about newly submitted requests
type ReviewerNotifier struct {
	sender    port.MessageSender
	receiveID string
	logger    Logger
}

// NewReviewerNotifier creates a notifier that messages receiveID
func NewReviewerNotifier(sender port.MessageSender, receiveID string, logger Logger) *ReviewerNotifier {
	_, logger, _ = orDefaults(nil, logger, nil)
	return &ReviewerNotifier{
		sender:    sender,
		receiveID: receiveID,
		logger:    logger,
	}
}

// Register subscribes the notifier asynchronously to submissions
func (n *ReviewerNotifier) Register(d dispatcher.Dispatcher) {
	d.SubscribeAsync(event.TypeLeaveSubmitted, "reviewer_notifier", n.Handle)
}

// Handle sends the notification for a successful submission
func (n *ReviewerNotifier) Handle(ctx context.Context, evt *event.Event) error {
	if evt.Type != event.TypeLeaveSubmitted || !evt.GetPayloadBool(event.KeySucceeded) {
		return nil
	}

	if err := n.sender.SendText(ctx, n.receiveID, FormatNewRequest(evt)); err != nil {
		n.logger.Error("Failed to notify reviewers", "correlation_id", evt.CorrelationID, "error", err)
		return err
	}

	n.logger.Info("Reviewers notified", "correlation_id", evt.CorrelationID)
	return nil
}

// FormatNewRequest renders the notification text of a submitted event
func FormatNewRequest(evt *event.Event) string {
	var b strings.Builder
	b.WriteString(NewRequestTitle)
	fmt.Fprintf(&b, "\n%s (%s)", evt.GetPayloadString(event.KeyFullName), evt.GetPayloadString(event.KeyDepartment))
	fmt.Fprintf(&b, "\n%s %s ถึง %s (%d วัน)",
		evt.GetPayloadString(event.KeyLeaveType),
		thaiDate(evt.GetPayloadString(event.KeyStartDate)),
		thaiDate(evt.GetPayloadString(event.KeyEndDate)),
		evt.GetPayloadInt(event.KeyTotalDays))
	return b.String()
}

func thaiDate(s string) string {
	d, err := calendar.ParseDate(s, nil)
	if err != nil {
		return s
	}
	return calendar.FormatThaiLong(d)
}
