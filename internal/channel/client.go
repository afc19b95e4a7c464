package channel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// IMAPClient wraps go-imap v2 for scanning a booking mailbox.
type IMAPClient struct {
	addr     string
	username string
	password string
	folder   string
}

// NewIMAPClient creates an IMAP client for one mailbox. addr is
// host:port; the connection always uses TLS.
func NewIMAPClient(addr, username, password, folder string) *IMAPClient {
	if folder == "" {
		folder = "INBOX"
	}
	return &IMAPClient{
		addr:     addr,
		username: username,
		password: password,
		folder:   folder,
	}
}

// connect establishes a TLS connection, authenticates, and selects the
// configured folder. The caller must Logout the returned client.
func (c *IMAPClient) connect(_ context.Context) (*imapclient.Client, error) {
	client, err := imapclient.DialTLS(c.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", c.addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf(
			"imap authentication failed for %s: %w", c.username, err,
		)
	}

	if _, err := client.Select(c.folder, nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting %s: %w", c.folder, err)
	}

	return client, nil
}

// FetchMessages searches the folder for messages received since the given
// time and returns them with decoded bodies, oldest first. limit caps the
// number of messages fetched (most recent are kept).
func (c *IMAPClient) FetchMessages(
	ctx context.Context,
	since time.Time,
	limit int,
) ([]Message, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	criteria := &imap.SearchCriteria{
		Since: since,
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if limit > 0 && len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var messages []Message
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		m := Message{Envelope: envelopeFromBuffer(buf)}
		if raw := buf.FindBodySection(bodySection); raw != nil {
			m.TextBody, m.HTMLBody = parseMIMEBody(raw)
		}
		messages = append(messages, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching messages: %w", err)
	}

	return messages, nil
}

// envelopeFromBuffer extracts an Envelope from a FetchMessageBuffer.
func envelopeFromBuffer(buf *imapclient.FetchMessageBuffer) Envelope {
	env := Envelope{
		UID: uint32(buf.UID),
	}

	if buf.Envelope != nil {
		env.MessageID = buf.Envelope.MessageID
		env.Subject = buf.Envelope.Subject
		env.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			env.FromAddr = from.Addr()
			if from.Name != "" {
				env.From = from.Name
			} else {
				env.From = env.FromAddr
			}
		}
	}

	return env
}

// parseMIMEBody parses a raw RFC 2822 message using go-message and
// extracts the text/plain and text/html bodies.
func parseMIMEBody(raw []byte) (textBody, htmlBody string) {
	reader := bytes.NewReader(raw)

	mr, err := mail.CreateReader(reader)
	if err != nil {
		// If parsing fails, treat the whole thing as plain text.
		return string(raw), ""
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			textBody = string(body)
		case strings.HasPrefix(contentType, "text/html"):
			htmlBody = string(body)
		}
	}

	return textBody, htmlBody
}
