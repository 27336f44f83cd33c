package reminder

import (
	"fmt"
	"strings"

	"github.com/Hitpatel02/HPFP-sub000/internal/models"
)

// Message is the rendered content for one dispatch task. Email uses
// Subject/PlainBody/HTMLBody, the chat channel uses ChatText.
type Message struct {
	Subject   string
	PlainBody string
	HTMLBody  string
	ChatText  string
}

// Compose renders a task into channel-ready content. Tier 1 reads as a
// gentle nudge, tier 2 as an urgent one. Pure: no I/O, no clock.
func Compose(task Task) Message {
	names := typeNames(task.Types)
	dueText := "at the earliest"
	if task.DueDate != nil {
		dueText = "by " + task.DueDate.Format("Mon, 02 Jan 2006")
	}

	var subject, plain, html, chat string
	if task.Tier == models.Tier2 {
		subject = fmt.Sprintf("URGENT: %s still pending for %s", names, task.Month)
		plain = fmt.Sprintf(
			"Dear %s,\n\nThis is an urgent reminder: we have still not received your %s for %s. "+
				"Please submit the pending documents %s to avoid late fees and penalties.\n\nRegards,\nCompliance Desk",
			task.Client.Name, names, task.Month, dueText)
		html = fmt.Sprintf(
			"<p>Dear %s,</p><p>This is an <strong>urgent</strong> reminder: we have still not received your <strong>%s</strong> for %s.</p>"+
				"<p>Please submit the pending documents %s to avoid late fees and penalties.</p><p>Regards,<br>Compliance Desk</p>",
			task.Client.Name, names, task.Month, dueText)
		chat = fmt.Sprintf("URGENT reminder for %s: your %s for %s is still pending. Please submit %s to avoid late fees.",
			task.Client.Name, names, task.Month, dueText)
	} else {
		subject = fmt.Sprintf("Reminder: %s for %s", names, task.Month)
		plain = fmt.Sprintf(
			"Dear %s,\n\nA gentle reminder that your %s for %s is due %s. "+
				"Kindly share the documents at your convenience.\n\nRegards,\nCompliance Desk",
			task.Client.Name, names, task.Month, dueText)
		html = fmt.Sprintf(
			"<p>Dear %s,</p><p>A gentle reminder that your <strong>%s</strong> for %s is due %s.</p>"+
				"<p>Kindly share the documents at your convenience.</p><p>Regards,<br>Compliance Desk</p>",
			task.Client.Name, names, task.Month, dueText)
		chat = fmt.Sprintf("Gentle reminder for %s: your %s for %s is due %s. Kindly share the documents.",
			task.Client.Name, names, task.Month, dueText)
	}

	return Message{Subject: subject, PlainBody: plain, HTMLBody: html, ChatText: chat}
}

// typeNames joins document type display names: "a", "a and b",
// "a, b and c"
func typeNames(types []models.DocumentType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.DisplayName()
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}
