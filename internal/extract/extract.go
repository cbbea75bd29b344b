package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/emersion/go-message/mail"

	// needed to handle other charsets too
	_ "github.com/emersion/go-message/charset"
)

// XMLFiles walks the MIME structure of a raw mail body and returns
// every XML document it can dig out of it. Report attachments come as
// plain XML, gzip or zip and are sometimes inlined instead of attached,
// so every part is sniffed by content instead of trusting headers.
//
// Extraction is all or nothing per mail: if any part fails to decode
// the collected errors are returned and the mail contributes no
// payloads.
func XMLFiles(body []byte) ([][]byte, error) {
	m, err := mail.CreateReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create mail reader: %w", err)
	}
	defer m.Close()

	var payloads [][]byte
	var errs *multierror.Error
	for {
		p, err := m.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not get next part: %w", err))
			break
		}

		b, err := io.ReadAll(p.Body)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not read part body: %w", err))
			continue
		}

		files, err := unwrap(b)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		payloads = append(payloads, files...)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return payloads, nil
}

// unwrap turns one MIME part into zero or more XML payloads. Parts
// that are neither XML nor a supported archive (e.g. the plain text
// body) are skipped.
func unwrap(content []byte) ([][]byte, error) {
	mtype := mimetype.Detect(content)
	switch {
	case mtype.Is("text/xml"), mtype.Is("application/xml"):
		return [][]byte{content}, nil
	case mtype.Is("application/gzip"):
		xmlContent, err := readGZ(content)
		if err != nil {
			return nil, err
		}
		return [][]byte{xmlContent}, nil
	case mtype.Is("application/zip"):
		return readZIP(content)
	default:
		return nil, nil
	}
}

func readGZ(content []byte) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("could not gzip read: %w", err)
	}
	defer gz.Close()

	xmlContent, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("could not read gzip content: %w", err)
	}
	return xmlContent, nil
}

func readZIP(content []byte) ([][]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("could not open zip: %w", err)
	}

	var files [][]byte
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		x, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not open file %s inside zip: %w", f.Name, err)
		}
		xmlContent, err := io.ReadAll(x)
		x.Close()
		if err != nil {
			return nil, fmt.Errorf("could not read file %s inside zip: %w", f.Name, err)
		}
		if m := mimetype.Detect(xmlContent); !m.Is("text/xml") && !m.Is("application/xml") {
			continue
		}
		files = append(files, xmlContent)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no xml file found within zip archive")
	}
	return files, nil
}
