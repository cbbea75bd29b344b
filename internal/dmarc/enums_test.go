package dmarc

import "testing"

func TestAlignmentModeSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want AlignmentMode
	}{
		{"r", AlignmentRelaxed},
		{"relaxed", AlignmentRelaxed},
		{"R", AlignmentRelaxed},
		{"Relaxed", AlignmentRelaxed},
		{"s", AlignmentStrict},
		{"strict", AlignmentStrict},
		{"STRICT", AlignmentStrict},
	}
	for _, tc := range tests {
		var got AlignmentMode
		if err := got.UnmarshalText([]byte(tc.in)); err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}

	var a AlignmentMode
	if err := a.UnmarshalText([]byte("loose")); err == nil {
		t.Error("expected error for unknown alignment mode")
	}
	if err := a.UnmarshalText([]byte("")); err == nil {
		t.Error("expected error for empty alignment mode")
	}
}

func TestDispositionSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Disposition
	}{
		{"none", DispositionNone},
		{"None", DispositionNone},
		{"quarantine", DispositionQuarantine},
		{"reject", DispositionReject},
		{"REJECT", DispositionReject},
	}
	for _, tc := range tests {
		var got Disposition
		if err := got.UnmarshalText([]byte(tc.in)); err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}

	var d Disposition
	if err := d.UnmarshalText([]byte("discard")); err == nil {
		t.Error("expected error for unknown disposition")
	}
}

func TestDKIMOutcomeHistoricalSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want DKIMOutcome
	}{
		{"pass", DKIMPass},
		{"fail", DKIMFail},
		{"policy", DKIMPolicy},
		{"neutral", DKIMNeutral},
		{"none", DKIMNone},
		{"temperror", DKIMTempError},
		{"TempError", DKIMTempError},
		{"temporary_error", DKIMTempError},
		{"unknown", DKIMTempError},
		{"permerror", DKIMPermError},
		{"permanent_error", DKIMPermError},
		{"error", DKIMPermError},
	}
	for _, tc := range tests {
		var got DKIMOutcome
		if err := got.UnmarshalText([]byte(tc.in)); err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSPFOutcomeSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want SPFOutcome
	}{
		{"pass", SPFPass},
		{"fail", SPFFail},
		{"neutral", SPFNeutral},
		{"none", SPFNone},
		{"softfail", SPFSoftFail},
		{"soft_fail", SPFSoftFail},
		{"SoftFail", SPFSoftFail},
		{"temperror", SPFTempError},
		{"unknown", SPFTempError},
		{"permerror", SPFPermError},
		{"error", SPFPermError},
	}
	for _, tc := range tests {
		var got SPFOutcome
		if err := got.UnmarshalText([]byte(tc.in)); err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}

	var o SPFOutcome
	if err := o.UnmarshalText([]byte("policy")); err == nil {
		t.Error("expected error, policy is not a valid spf result")
	}
}

func TestOverrideTypeSpellings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want OverrideType
	}{
		{"forwarded", OverrideForwarded},
		{"sampled_out", OverrideSampledOut},
		{"sampledout", OverrideSampledOut},
		{"trusted_forwarder", OverrideTrustedForwarder},
		{"mailing_list", OverrideMailingList},
		{"local_policy", OverrideLocalPolicy},
		{"other", OverrideOther},
	}
	for _, tc := range tests {
		var got OverrideType
		if err := got.UnmarshalText([]byte(tc.in)); err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSPFScopeSpellings(t *testing.T) {
	t.Parallel()

	var s SPFScope
	if err := s.UnmarshalText([]byte("mfrom")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != ScopeMfrom {
		t.Errorf("got %q, want %q", s, ScopeMfrom)
	}
	if err := s.UnmarshalText([]byte("HELO")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != ScopeHelo {
		t.Errorf("got %q, want %q", s, ScopeHelo)
	}
	if err := s.UnmarshalText([]byte("ptr")); err == nil {
		t.Error("expected error for unknown scope")
	}
}
