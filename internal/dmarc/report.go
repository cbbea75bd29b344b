package dmarc

import "net/netip"

// Report represents the top element of a DMARC aggregate report
// https://tools.ietf.org/html/rfc7489#appendix-C
type Report struct {
	Version         string          `xml:"version" json:"version,omitempty"`
	ReportMetadata  ReportMetadata  `xml:"report_metadata" json:"report_metadata"`
	PolicyPublished PolicyPublished `xml:"policy_published" json:"policy_published"`
	Records         []Record        `xml:"record" json:"records" validate:"min=1,dive"`
}

// ReportMetadata identifies the reporting organization and the
// time window the report covers.
type ReportMetadata struct {
	OrgName          string    `xml:"org_name" json:"org_name" validate:"required"`
	Email            string    `xml:"email" json:"email" validate:"required"`
	ExtraContactInfo string    `xml:"extra_contact_info" json:"extra_contact_info,omitempty"`
	ReportID         string    `xml:"report_id" json:"report_id" validate:"required"`
	DateRange        DateRange `xml:"date_range" json:"date_range"`
	Errors           []string  `xml:"error" json:"errors,omitempty"`
}

// DateRange is the reporting period in unix seconds. The bounds are
// pointers so a document that omits them fails validation instead of
// silently reporting the epoch.
type DateRange struct {
	Begin *int64 `xml:"begin" json:"begin" validate:"required"`
	End   *int64 `xml:"end" json:"end" validate:"required"`
}

// PolicyPublished is the DMARC policy the sending domain had in DNS
// at the time the report was generated.
type PolicyPublished struct {
	Domain string         `xml:"domain" json:"domain" validate:"required"`
	ADKIM  *AlignmentMode `xml:"adkim" json:"adkim,omitempty"`
	ASPF   *AlignmentMode `xml:"aspf" json:"aspf,omitempty"`
	P      Disposition    `xml:"p" json:"p" validate:"required"`
	SP     *Disposition   `xml:"sp" json:"sp,omitempty"`
	Pct    *int           `xml:"pct" json:"pct" validate:"required,min=0,max=100"`
	FO     string         `xml:"fo" json:"fo,omitempty"`
}

// Record represents the record element of a DMARC report. A report
// carries one record per distinct source/result combination.
type Record struct {
	Row         Row         `xml:"row" json:"row"`
	Identifiers Identifiers `xml:"identifiers" json:"identifiers"`
	AuthResults AuthResults `xml:"auth_results" json:"auth_results"`
}

// Row holds the source address, the message count and the outcome of
// the receiver's policy evaluation.
type Row struct {
	SourceIP        netip.Addr      `xml:"source_ip" json:"source_ip"`
	Count           *int            `xml:"count" json:"count" validate:"required,min=0"`
	PolicyEvaluated PolicyEvaluated `xml:"policy_evaluated" json:"policy_evaluated"`
}

// PolicyEvaluated is the receiver's verdict for the row.
type PolicyEvaluated struct {
	Disposition Disposition      `xml:"disposition" json:"disposition" validate:"required"`
	DKIM        *AuthResult      `xml:"dkim" json:"dkim,omitempty"`
	SPF         *AuthResult      `xml:"spf" json:"spf,omitempty"`
	Reasons     []OverrideReason `xml:"reason" json:"reasons,omitempty" validate:"dive"`
}

// OverrideReason explains why the receiver deviated from the
// published policy.
type OverrideReason struct {
	Type    OverrideType `xml:"type" json:"type" validate:"required"`
	Comment string       `xml:"comment" json:"comment,omitempty"`
}

// Identifiers are the addresses the DMARC evaluation aligned against.
type Identifiers struct {
	EnvelopeTo   string `xml:"envelope_to" json:"envelope_to,omitempty"`
	EnvelopeFrom string `xml:"envelope_from" json:"envelope_from,omitempty"`
	HeaderFrom   string `xml:"header_from" json:"header_from" validate:"required"`
}

// AuthResults carries the raw DKIM and SPF results for the row.
type AuthResults struct {
	DKIM []DKIMAuthResult `xml:"dkim" json:"dkim,omitempty" validate:"dive"`
	SPF  []SPFAuthResult  `xml:"spf" json:"spf" validate:"required,min=1,dive"`
}

// DKIMAuthResult is one DKIM signature verification result.
type DKIMAuthResult struct {
	Domain      string      `xml:"domain" json:"domain" validate:"required"`
	Selector    string      `xml:"selector" json:"selector,omitempty"`
	Result      DKIMOutcome `xml:"result" json:"result" validate:"required"`
	HumanResult string      `xml:"human_result" json:"human_result,omitempty"`
}

// SPFAuthResult is one SPF check result.
type SPFAuthResult struct {
	Domain string     `xml:"domain" json:"domain" validate:"required"`
	Scope  *SPFScope  `xml:"scope" json:"scope,omitempty"`
	Result SPFOutcome `xml:"result" json:"result" validate:"required"`
}

// XMLError captures a payload that could not be parsed as a DMARC
// report, with its lossily decoded text and the full error.
type XMLError struct {
	XML   string `json:"xml"`
	Error string `json:"error"`
}
