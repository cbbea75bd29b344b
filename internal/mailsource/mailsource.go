package mailsource

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/cwarden/dmarc-report-viewer/internal/config"
)

// Mail is one raw message from the inbox. Body is nil when the server
// returned no body section or the body could not be read; such a mail
// still counts but yields no payloads downstream.
type Mail struct {
	UID     uint32
	Subject string
	Size    uint32
	Body    []byte
}

// Source downloads the full inbox content once per call. Each call
// opens a fresh connection as some IMAP servers have pretty short idle
// timeouts and the imap library does not handle reconnects.
type Source struct {
	config config.IMAPConfig
	logger *log.Logger
}

func New(conf config.IMAPConfig, logger *log.Logger) *Source {
	return &Source{config: conf, logger: logger}
}

// Fetch returns every non-deleted message in the configured folder or
// fails as a whole. It never deletes or flags anything, the inbox is
// the system of record for report history.
func (s *Source) Fetch(ctx context.Context) ([]Mail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := s.connect()
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", s.config.Host, err)
	}
	s.logger.Debug("connected to imap server")

	if err := c.Login(s.config.User, s.config.Pass); err != nil {
		// drop the connection, there is no session to log out of
		if terr := c.Terminate(); terr != nil {
			s.logger.Error("error closing connection", "err", terr)
		}
		return nil, fmt.Errorf("could not login: %w", err)
	}
	defer func() {
		if err := c.Logout(); err != nil {
			s.logger.Error("error on logout", "err", err)
		}
	}()

	mbox, err := c.Select(s.config.Folder, true)
	if err != nil {
		return nil, fmt.Errorf("could not select folder %s: %w", s.config.Folder, err)
	}
	s.logger.Debug("opened folder", "name", mbox.Name, "messages", mbox.Messages, "unseen", mbox.Unseen)

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.DeletedFlag}
	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not search for mails: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{
		section.FetchItem(),
		imap.FetchEnvelope,
		imap.FetchRFC822Size,
		imap.FetchUid,
	}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, items, messages)
	}()

	var mails []Mail
	for msg := range messages {
		m := Mail{UID: msg.Uid, Size: msg.Size}
		if msg.Envelope != nil {
			m.Subject = msg.Envelope.Subject
		}
		if r := msg.GetBody(section); r != nil {
			b, err := io.ReadAll(r)
			if err != nil {
				s.logger.Warn("could not read message body", "uid", msg.Uid, "err", err)
			} else {
				m.Body = b
			}
		} else {
			s.logger.Warn("server did not return a message body", "uid", msg.Uid)
		}
		mails = append(mails, m)
	}

	if err := <-done; err != nil {
		return nil, fmt.Errorf("error on fetch: %w", err)
	}

	return mails, nil
}

func (s *Source) connect() (*client.Client, error) {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	tlsConfig := tls.Config{} // nolint: gosec
	if s.config.IgnoreCert {
		tlsConfig.InsecureSkipVerify = true // nolint:gosec
	}

	if s.config.SSL {
		c, err := client.DialTLS(addr, &tlsConfig)
		if err != nil {
			return nil, err
		}
		c.Timeout = s.config.Timeout.Duration
		c.ErrorLog = s.logger.StandardLog()
		return c, nil
	}

	c, err := client.Dial(addr)
	if err != nil {
		return nil, err
	}
	c.Timeout = s.config.Timeout.Duration
	c.ErrorLog = s.logger.StandardLog()
	support, err := c.SupportStartTLS()
	if err != nil {
		return nil, err
	}
	if support {
		if err := c.StartTLS(&tlsConfig); err != nil {
			return nil, err
		}
	}

	return c, nil
}
