package status

import "testing"

func TestNormalize_Codes(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		raw   any
		code  Code
		label string
	}{
		{"job draft", KindJobListing, 0, JobDraft, "Draft"},
		{"job active", KindJobListing, 2, JobActive, "Active"},
		{"job out of range", KindJobListing, 99, JobDraft, "Draft"},
		{"job negative", KindJobListing, -1, JobDraft, "Draft"},
		{"application accepted", KindApplication, 5, AppAccepted, "Accepted"},
		{"application out of range", KindApplication, 42, AppRejected, "Rejected"},
		{"employment completed", KindEmployment, 4, EmpCompleted, "Completed"},
		{"employment out of range", KindEmployment, 10, EmpActive, "Active"},
		{"verification verified", KindCompanyVerification, 2, VerVerified, "Verified"},
		{"verification out of range", KindCompanyVerification, 7, VerUnverified, "Unverified"},
		{"int64 input", KindJobListing, int64(3), JobClosed, "Closed"},
		{"float64 input", KindJobListing, float64(2), JobActive, "Active"},
		{"code input", KindEmployment, EmpOnLeave, EmpOnLeave, "On Leave"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.kind, tt.raw)
			if got.Code != tt.code || got.Label != tt.label {
				t.Errorf("Normalize(%v, %v) = {%d %q}, want {%d %q}",
					tt.kind, tt.raw, got.Code, got.Label, tt.code, tt.label)
			}
		})
	}
}

func TestNormalize_Strings(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		raw  string
		code Code
	}{
		{"canonical label", KindJobListing, "Active", JobActive},
		{"lowercase label", KindJobListing, "active", JobActive},
		{"whitespace", KindJobListing, "  Pending Approval  ", JobPendingApproval},
		{"synonym open", KindJobListing, "open", JobActive},
		{"synonym published", KindJobListing, "PUBLISHED", JobActive},
		{"numeric string", KindJobListing, "3", JobClosed},
		{"unrecognized job falls to draft", KindJobListing, "whatever", JobDraft},
		{"unrecognized application falls to rejected", KindApplication, "whatever", AppRejected},
		{"application synonym hired", KindApplication, "hired", AppAccepted},
		{"application synonym under review", KindApplication, "Under Review", AppReviewing},
		{"employment synonym leave", KindEmployment, "leave", EmpOnLeave},
		{"verification synonym approved", KindCompanyVerification, "approved", VerVerified},
		{"empty job string", KindJobListing, "", JobDraft},
		{"empty application string", KindApplication, "", AppRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.kind, tt.raw)
			if got.Code != tt.code {
				t.Errorf("Normalize(%v, %q) = %d, want %d", tt.kind, tt.raw, got.Code, tt.code)
			}
		})
	}
}

// Normalizing a status's own label must land back on the same code.
func TestNormalize_RoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindJobListing, KindApplication, KindEmployment, KindCompanyVerification} {
		for _, code := range Codes(kind) {
			byLabel := Normalize(kind, LabelOf(kind, code))
			if byLabel.Code != code {
				t.Errorf("kind %s: Normalize(label of %d) = %d", kind, code, byLabel.Code)
			}
			byCode := Normalize(kind, byLabel.Code)
			if byCode != byLabel {
				t.Errorf("kind %s: round trip of %d diverged: %+v vs %+v", kind, code, byCode, byLabel)
			}
		}
	}
}

func TestNormalize_UnsupportedTypeFallsBack(t *testing.T) {
	got := Normalize(KindApplication, struct{}{})
	if got.Code != AppRejected {
		t.Errorf("Normalize(struct{}{}) = %d, want %d", got.Code, AppRejected)
	}
}

func TestLabelOf_PanicsOnUnregisteredCode(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("LabelOf() should panic on unregistered code")
		}
	}()

	LabelOf(KindJobListing, Code(99))
}

func TestDefault(t *testing.T) {
	tests := []struct {
		kind Kind
		code Code
	}{
		{KindJobListing, JobDraft},
		{KindApplication, AppRejected},
		{KindEmployment, EmpActive},
		{KindCompanyVerification, VerUnverified},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := Default(tt.kind); got.Code != tt.code {
				t.Errorf("Default(%s) = %d, want %d", tt.kind, got.Code, tt.code)
			}
		})
	}
}

func TestIsRegistered(t *testing.T) {
	if !IsRegistered(KindEmployment, EmpSuspended) {
		t.Error("IsRegistered(employment, suspended) = false, want true")
	}
	if IsRegistered(KindEmployment, Code(99)) {
		t.Error("IsRegistered(employment, 99) = true, want false")
	}
	if IsRegistered(Kind("nope"), Code(0)) {
		t.Error("IsRegistered(unknown kind) = true, want false")
	}
}
