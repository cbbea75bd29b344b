package dmarc

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// some xmls contain invalid XML by adding an unclosed xs tag
var xsTag = []byte(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://dmarc.org/dmarc-xml/0.1">`)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes a single XML payload into a Report and checks it for
// schema conformance. Any failure makes the whole payload invalid; the
// caller is expected to collect the error instead of aborting its run.
func Parse(payload []byte) (*Report, error) {
	payload = bytes.ReplaceAll(payload, xsTag, nil)

	var report Report
	if err := xml.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("error on xml unmarshal: %w", err)
	}

	if err := validate.Struct(&report); err != nil {
		return nil, fmt.Errorf("report failed schema validation: %w", err)
	}

	// netip.Addr decodes leniently, the zero value means the element
	// was missing entirely
	for i, record := range report.Records {
		if !record.Row.SourceIP.IsValid() {
			return nil, fmt.Errorf("record %d has no valid source_ip", i+1)
		}
	}

	return &report, nil
}
