// Package cmd implements the mimecompose command-line tool, which
// composes a message from flags and prints the rendered MIME document
// to stdout.
package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bead-go/email/header"
	"github.com/bead-go/email/message"
	"github.com/bead-go/email/mime"
)

var (
	to      []string
	cc      []string
	bcc     []string
	from    string
	subject string
	body    string
	attach  []string
	useLF   bool

	rootCmd = &cobra.Command{
		Use:   "mimecompose",
		Short: "Compose a MIME email message and print it",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
)

func init() {
	rootCmd.Flags().StringSliceVar(&to, "to", nil, "recipient address (repeatable)")
	rootCmd.Flags().StringSliceVar(&cc, "cc", nil, "carbon-copy address (repeatable)")
	rootCmd.Flags().StringSliceVar(&bcc, "bcc", nil, "blind-carbon-copy address (repeatable)")
	rootCmd.Flags().StringVar(&from, "from", "", "sender address")
	rootCmd.Flags().StringVar(&subject, "subject", "", "message subject")
	rootCmd.Flags().StringVar(&body, "body", "", "flat text body")
	rootCmd.Flags().StringSliceVar(&attach, "attach", nil, "file to attach (repeatable)")
	rootCmd.Flags().BoolVar(&useLF, "lf", false, "use LF line endings instead of CRLF")
}

func Execute() error {
	return rootCmd.Execute()
}

func run(_ *cobra.Command, _ []string) error {
	m := message.New().
		WithTo(to...).
		WithCc(cc...).
		WithBcc(bcc...)

	if from != "" {
		m = m.WithFrom(from)
	}
	if subject != "" {
		m = m.WithSubject(subject)
	}

	if body != "" {
		if len(attach) > 0 {
			// the body becomes the first part of the multipart message
			var err error
			m, err = m.WithPartContent([]byte(body), "text/plain", "quoted-printable")
			if err != nil {
				return err
			}
		} else {
			m = m.WithBody([]byte(body))
		}
	}

	for _, fn := range attach {
		raw, err := os.ReadFile(fn)
		if err != nil {
			return err
		}

		// content bytes pass through the engine untouched, so encode
		// here before attaching
		enc := base64.StdEncoding.EncodeToString(raw)
		m, err = m.WithAttachment(
			[]byte(enc),
			"application/octet-stream",
			"base64",
			filepath.Base(fn),
		)
		if err != nil {
			return err
		}
	}

	opts := []mime.Option{}
	if useLF {
		opts = append(opts, mime.WithBreak(header.LF))
	}

	b, err := mime.NewBuilder(opts...)
	if err != nil {
		return err
	}

	doc, err := b.MIME(m)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(os.Stdout, "%s", doc)
	return err
}
