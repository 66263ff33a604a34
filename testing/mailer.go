package testing

import (
	"context"
	"sync"
)

// SentMail is one recorded Send call
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records every send attempt. When Err is set each attempt is
// recorded and then fails with it.
type FakeMailer struct {
	mu   sync.Mutex
	sent []SentMail
	Err  error
}

func (m *FakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: htmlBody})
	return m.Err
}

// Sent returns a copy of the recorded attempts
func (m *FakeMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns the attempts addressed to to
func (m *FakeMailer) SentTo(to string) []SentMail {
	var out []SentMail
	for _, mail := range m.Sent() {
		if mail.To == to {
			out = append(out, mail)
		}
	}
	return out
}

func (m *FakeMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}
