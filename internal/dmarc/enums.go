package dmarc

import (
	"fmt"
	"strings"
)

// The enumerations below accept every historical textual spelling the
// big reporters have emitted over the years. The RFC 7489 appendix C
// schema uses short tags and squashed words (r, temperror) while older
// draft schemas spelled the same values out (relaxed, unknown, error).
// Decoding normalizes all of them onto one canonical value.

// normalize lowercases a spelling and strips separators so that
// soft_fail, soft-fail and SoftFail all compare equal.
func normalize(text []byte) string {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

// AlignmentMode is the DKIM/SPF identifier alignment setting.
type AlignmentMode string

const (
	AlignmentRelaxed AlignmentMode = "relaxed"
	AlignmentStrict  AlignmentMode = "strict"
)

func (a *AlignmentMode) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "r", "relaxed":
		*a = AlignmentRelaxed
	case "s", "strict":
		*a = AlignmentStrict
	default:
		return fmt.Errorf("unknown alignment mode %q", string(text))
	}
	return nil
}

// Disposition is the policy action requested for failing mail.
type Disposition string

const (
	DispositionNone       Disposition = "none"
	DispositionQuarantine Disposition = "quarantine"
	DispositionReject     Disposition = "reject"
)

func (d *Disposition) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "none":
		*d = DispositionNone
	case "quarantine":
		*d = DispositionQuarantine
	case "reject":
		*d = DispositionReject
	default:
		return fmt.Errorf("unknown disposition %q", string(text))
	}
	return nil
}

// AuthResult is the policy evaluated DMARC outcome of one mechanism.
type AuthResult string

const (
	AuthPass AuthResult = "pass"
	AuthFail AuthResult = "fail"
)

func (r *AuthResult) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "pass":
		*r = AuthPass
	case "fail":
		*r = AuthFail
	default:
		return fmt.Errorf("unknown dmarc result %q", string(text))
	}
	return nil
}

// DKIMOutcome is the raw DKIM verification result.
type DKIMOutcome string

const (
	DKIMNone      DKIMOutcome = "none"
	DKIMPass      DKIMOutcome = "pass"
	DKIMFail      DKIMOutcome = "fail"
	DKIMPolicy    DKIMOutcome = "policy"
	DKIMNeutral   DKIMOutcome = "neutral"
	DKIMTempError DKIMOutcome = "temperror"
	DKIMPermError DKIMOutcome = "permerror"
)

func (o *DKIMOutcome) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "none":
		*o = DKIMNone
	case "pass":
		*o = DKIMPass
	case "fail":
		*o = DKIMFail
	case "policy":
		*o = DKIMPolicy
	case "neutral":
		*o = DKIMNeutral
	case "temperror", "temporaryerror", "unknown":
		*o = DKIMTempError
	case "permerror", "permanenterror", "error":
		*o = DKIMPermError
	default:
		return fmt.Errorf("unknown dkim result %q", string(text))
	}
	return nil
}

// SPFOutcome is the raw SPF check result.
type SPFOutcome string

const (
	SPFNone      SPFOutcome = "none"
	SPFNeutral   SPFOutcome = "neutral"
	SPFPass      SPFOutcome = "pass"
	SPFFail      SPFOutcome = "fail"
	SPFSoftFail  SPFOutcome = "softfail"
	SPFTempError SPFOutcome = "temperror"
	SPFPermError SPFOutcome = "permerror"
)

func (o *SPFOutcome) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "none":
		*o = SPFNone
	case "neutral":
		*o = SPFNeutral
	case "pass":
		*o = SPFPass
	case "fail":
		*o = SPFFail
	case "softfail":
		*o = SPFSoftFail
	case "temperror", "temporaryerror", "unknown":
		*o = SPFTempError
	case "permerror", "permanenterror", "error":
		*o = SPFPermError
	default:
		return fmt.Errorf("unknown spf result %q", string(text))
	}
	return nil
}

// SPFScope is the identity the SPF check was performed on.
type SPFScope string

const (
	ScopeHelo  SPFScope = "helo"
	ScopeMfrom SPFScope = "mfrom"
)

func (s *SPFScope) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "helo":
		*s = ScopeHelo
	case "mfrom":
		*s = ScopeMfrom
	default:
		return fmt.Errorf("unknown spf scope %q", string(text))
	}
	return nil
}

// OverrideType classifies why a receiver overrode the published policy.
type OverrideType string

const (
	OverrideForwarded        OverrideType = "forwarded"
	OverrideSampledOut       OverrideType = "sampled_out"
	OverrideTrustedForwarder OverrideType = "trusted_forwarder"
	OverrideMailingList      OverrideType = "mailing_list"
	OverrideLocalPolicy      OverrideType = "local_policy"
	OverrideOther            OverrideType = "other"
)

func (o *OverrideType) UnmarshalText(text []byte) error {
	switch normalize(text) {
	case "forwarded":
		*o = OverrideForwarded
	case "sampledout":
		*o = OverrideSampledOut
	case "trustedforwarder":
		*o = OverrideTrustedForwarder
	case "mailinglist":
		*o = OverrideMailingList
	case "localpolicy":
		*o = OverrideLocalPolicy
	case "other":
		*o = OverrideOther
	default:
		return fmt.Errorf("unknown policy override type %q", string(text))
	}
	return nil
}
