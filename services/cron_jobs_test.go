package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minilibrary_go/config"
)

// --- Recording mailer ---

type recordedEmail struct {
	To      string
	Subject string
	Text    string
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []recordedEmail
	failTo string // sends to this address fail
}

func (m *fakeMailer) Send(to, subject, text, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if to == m.failTo {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, recordedEmail{To: to, Subject: subject, Text: text})
	return nil
}

func (m *fakeMailer) emails() []recordedEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedEmail(nil), m.sent...)
}

func TestRunDueDateReminders(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, "reader", "reader@example.com")
	dueSoon := createTestBook(t, "Due Soon", "SciFi")
	dueFar := createTestBook(t, "Due Far", "SciFi")
	alreadyBack := createTestBook(t, "Already Back", "SciFi")

	// inside the 3-day window, outside it, and already returned
	createTestLoan(t, user.ID, dueSoon.ID, time.Now().AddDate(0, 0, 1), false)
	createTestLoan(t, user.ID, dueFar.ID, time.Now().AddDate(0, 0, 10), false)
	createTestLoan(t, user.ID, alreadyBack.ID, time.Now().AddDate(0, 0, 1), true)

	mailer := &fakeMailer{}
	jobs := NewCronJobs(mailer)
	jobs.RunDueDateReminders()

	emails := mailer.emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "reader@example.com", emails[0].To)
	assert.Contains(t, emails[0].Subject, "Due Date")
	assert.Contains(t, emails[0].Text, "Due Soon")
}

func TestRunDueDateRemindersContinuesAfterFailure(t *testing.T) {
	setupTestDB(t)

	failing := createTestUser(t, "failing", "broken@example.com")
	working := createTestUser(t, "working", "working@example.com")
	book1 := createTestBook(t, "Book One", "SciFi")
	book2 := createTestBook(t, "Book Two", "SciFi")

	createTestLoan(t, failing.ID, book1.ID, time.Now().AddDate(0, 0, 1), false)
	createTestLoan(t, working.ID, book2.ID, time.Now().AddDate(0, 0, 1), false)

	mailer := &fakeMailer{failTo: "broken@example.com"}
	jobs := NewCronJobs(mailer)
	jobs.RunDueDateReminders()

	// one failing recipient must not block the rest
	emails := mailer.emails()
	require.Len(t, emails, 1)
	assert.Equal(t, "working@example.com", emails[0].To)
}

func TestRunNewBookNotifications(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "alice", "alice@example.com")
	createTestUser(t, "bob", "bob@example.com")

	createTestBook(t, "Fresh Arrival", "SciFi")
	stale := createTestBook(t, "Old Stock", "SciFi")
	require.NoError(t, config.DB.Model(stale).
		Update("created_at", time.Now().AddDate(0, 0, -3)).Error)
	removed := createTestBook(t, "Removed Arrival", "SciFi")
	require.NoError(t, config.DB.Model(removed).Update("deleted", true).Error)

	mailer := &fakeMailer{}
	jobs := NewCronJobs(mailer)
	jobs.RunNewBookNotifications()

	// every user gets one announcement listing only the fresh title
	emails := mailer.emails()
	require.Len(t, emails, 2)
	for _, email := range emails {
		assert.Contains(t, email.Text, "- Fresh Arrival")
		assert.NotContains(t, email.Text, "Old Stock")
		assert.NotContains(t, email.Text, "Removed Arrival")
	}
}

func TestRunNewBookNotificationsNoNewBooks(t *testing.T) {
	setupTestDB(t)

	createTestUser(t, "alice", "alice@example.com")
	stale := createTestBook(t, "Old Stock", "SciFi")
	require.NoError(t, config.DB.Model(stale).
		Update("created_at", time.Now().AddDate(0, 0, -3)).Error)

	mailer := &fakeMailer{}
	jobs := NewCronJobs(mailer)
	jobs.RunNewBookNotifications()

	assert.Empty(t, mailer.emails())
}

func TestUnconfiguredSMTPIsNoop(t *testing.T) {
	es := NewEmailService(&config.SMTPConfig{})
	assert.NoError(t, es.Send("nobody@example.com", "subject", "text", ""))
}
