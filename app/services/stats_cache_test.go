package services

import (
	"context"
	"io"
	"mime"
	"mime/quotedprintable"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedStats struct {
	Jobs  int64            `json:"jobs"`
	ByKey map[string]int64 `json:"by_key"`
}

func TestMemoryStatsCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryStatsCache(time.Minute, 0)

	var out cachedStats
	found, err := cache.Get(ctx, "dashboard", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := cachedStats{Jobs: 4, ByKey: map[string]int64{"pending": 2}}
	require.NoError(t, cache.Set(ctx, "dashboard", in))

	found, err = cache.Get(ctx, "dashboard", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	require.NoError(t, cache.Invalidate(ctx, "dashboard", "missing"))
	found, err = cache.Get(ctx, "dashboard", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStatsCache_Expires(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryStatsCache(20*time.Millisecond, time.Hour)

	require.NoError(t, cache.Set(ctx, "k", 1))
	time.Sleep(50 * time.Millisecond)

	var v int
	found, err := cache.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSMTPMailer_BuildMessage(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Port: 587, FromEmail: "noreply@studio.test"})
	assert.Error(t, err)

	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.studio.test", Port: 587, FromEmail: "noreply@studio.test", FromName: "Pixel Forge"})
	require.NoError(t, err)

	msg := string(m.buildMessage("jamie@example.com", "Hello\r\nBcc: evil@example.com", "<p>hi</p>"))
	assert.Contains(t, msg, "From: Pixel Forge <noreply@studio.test>\r\n")
	assert.Contains(t, msg, "To: jamie@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hello  Bcc: evil@example.com\r\n")
	assert.False(t, strings.Contains(msg, "\r\nBcc:"))
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}

func TestSMTPMailer_BuildMessageLongBody(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.studio.test", Port: 587, FromEmail: "noreply@studio.test"})
	require.NoError(t, err)

	body := "<p>" + strings.Repeat("We need a Switch port = soon. ", 200) + "</p>"
	msg := string(m.buildMessage("hiring@studio.test", "New Contact", body))

	for _, line := range strings.Split(msg, "\r\n") {
		assert.LessOrEqual(t, len(line), 998)
	}
	assert.Contains(t, msg, "Content-Transfer-Encoding: quoted-printable\r\n")

	_, encoded, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)
	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(encoded)))
	require.NoError(t, err)
	assert.Equal(t, body, string(decoded))
}

func TestSMTPMailer_BuildMessageEncodesSubject(t *testing.T) {
	m, err := NewSMTPMailer(SMTPConfig{Host: "smtp.studio.test", Port: 587, FromEmail: "noreply@studio.test"})
	require.NoError(t, err)

	subject := "Application Received: Künstler für Umgebungen"
	msg := string(m.buildMessage("jamie@example.com", subject, "<p>hi</p>"))

	header, _, _ := strings.Cut(msg, "\r\n\r\n")
	assert.NotContains(t, header, "ü")
	assert.Contains(t, header, "Subject: =?utf-8?q?")

	var encodedSubject string
	for _, line := range strings.Split(header, "\r\n") {
		if v, ok := strings.CutPrefix(line, "Subject: "); ok {
			encodedSubject = v
		}
	}
	decoded, err := new(mime.WordDecoder).DecodeHeader(encodedSubject)
	require.NoError(t, err)
	assert.Equal(t, subject, decoded)
}
