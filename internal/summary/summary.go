package summary

import "github.com/cwarden/dmarc-report-viewer/internal/dmarc"

// Summary is the rollup computed from one ingestion cycle.
type Summary struct {
	MailCount     int   `json:"mail_count"`
	XMLFileCount  int   `json:"xml_file_count"`
	ReportCount   int   `json:"report_count"`
	XMLErrorCount int   `json:"xml_error_count"`
	PassCount     int   `json:"pass_count"`
	FailCount     int   `json:"fail_count"`
	LastUpdate    int64 `json:"last_update"`
}

// New computes the rollup for one cycle. A record counts towards pass
// when either of its policy evaluated DKIM or SPF results is pass
// (DMARC passes when either aligned mechanism passes), weighted by the
// record's message count. Pure function, inputs are never mutated.
func New(mailCount, xmlFileCount int, reports []dmarc.Report, xmlErrorCount int, now int64) Summary {
	s := Summary{
		MailCount:     mailCount,
		XMLFileCount:  xmlFileCount,
		ReportCount:   len(reports),
		XMLErrorCount: xmlErrorCount,
		LastUpdate:    now,
	}

	for _, report := range reports {
		for _, record := range report.Records {
			count := 0
			if record.Row.Count != nil {
				count = *record.Row.Count
			}
			pe := record.Row.PolicyEvaluated
			passed := (pe.DKIM != nil && *pe.DKIM == dmarc.AuthPass) ||
				(pe.SPF != nil && *pe.SPF == dmarc.AuthPass)
			if passed {
				s.PassCount += count
			} else {
				s.FailCount += count
			}
		}
	}

	return s
}
