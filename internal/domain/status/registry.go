package status

import (
	"fmt"
	"strconv"
	"strings"
)

// registry holds one entity kind's code space: canonical labels, accepted
// input synonyms, and the fallback code used for unrecognized input.
type registry struct {
	labels   map[Code]string
	synonyms map[string]Code
	fallback Code
}

var registries = map[Kind]*registry{
	KindJobListing: {
		labels: map[Code]string{
			JobDraft:           "Draft",
			JobPendingApproval: "Pending Approval",
			JobActive:          "Active",
			JobClosed:          "Closed",
			JobRejected:        "Rejected",
		},
		synonyms: map[string]Code{
			"pending":          JobPendingApproval,
			"pending approval": JobPendingApproval,
			"open":             JobActive,
			"published":        JobActive,
			"live":             JobActive,
			"closed":           JobClosed,
			"archived":         JobClosed,
			"declined":         JobRejected,
		},
		// Unrecognized listing statuses fall back to Draft.
		fallback: JobDraft,
	},
	KindApplication: {
		labels: map[Code]string{
			AppPending:            "Pending",
			AppReviewing:          "Reviewing",
			AppInterviewScheduled: "Interview Scheduled",
			AppInterviewed:        "Interviewed",
			AppOfferExtended:      "Offer Extended",
			AppAccepted:           "Accepted",
			AppWithdrawn:          "Withdrawn",
			AppRejected:           "Rejected",
		},
		synonyms: map[string]Code{
			"submitted":    AppPending,
			"in review":    AppReviewing,
			"under review": AppReviewing,
			"interview":    AppInterviewScheduled,
			"offer":        AppOfferExtended,
			"offered":      AppOfferExtended,
			"hired":        AppAccepted,
			"declined":     AppRejected,
			"cancelled":    AppWithdrawn,
		},
		// Unrecognized application statuses fall back to Rejected, not
		// Pending. Existing call sites rely on this exact behavior.
		fallback: AppRejected,
	},
	KindEmployment: {
		labels: map[Code]string{
			EmpActive:       "Active",
			EmpNoticePeriod: "Notice Period",
			EmpSuspended:    "Suspended",
			EmpTerminated:   "Terminated",
			EmpCompleted:    "Completed",
			EmpOnLeave:      "On Leave",
		},
		synonyms: map[string]Code{
			"employed":  EmpActive,
			"working":   EmpActive,
			"notice":    EmpNoticePeriod,
			"resigning": EmpNoticePeriod,
			"leave":     EmpOnLeave,
			"on leave":  EmpOnLeave,
			"finished":  EmpCompleted,
			"ended":     EmpTerminated,
		},
		fallback: EmpActive,
	},
	KindCompanyVerification: {
		labels: map[Code]string{
			VerUnverified:    "Unverified",
			VerPendingReview: "Pending Review",
			VerVerified:      "Verified",
			VerRejected:      "Rejected",
		},
		synonyms: map[string]Code{
			"new":       VerUnverified,
			"pending":   VerPendingReview,
			"in review": VerPendingReview,
			"approved":  VerVerified,
			"declined":  VerRejected,
		},
		fallback: VerUnverified,
	},
}

// Normalize maps raw input to a defined Status for the kind. Input may be an
// integer code, a canonical label, or a known synonym (case-insensitive,
// trimmed). It never fails: out-of-range codes and unrecognized strings map
// to the kind's fallback status. Callers ingesting untrusted form/API values
// must go through Normalize before storing a code.
func Normalize(kind Kind, raw any) Status {
	reg := mustRegistry(kind)

	switch v := raw.(type) {
	case Code:
		return reg.normalizeCode(v)
	case int:
		return reg.normalizeCode(Code(v))
	case int32:
		return reg.normalizeCode(Code(v))
	case int64:
		return reg.normalizeCode(Code(v))
	case float64:
		// JSON numbers decode as float64
		return reg.normalizeCode(Code(int(v)))
	case string:
		return reg.normalizeString(v)
	case fmt.Stringer:
		return reg.normalizeString(v.String())
	default:
		return Status{Code: reg.fallback, Label: reg.labels[reg.fallback]}
	}
}

// LabelOf returns the canonical label for a registered code. Calling it with
// a code that never passed through Normalize is a contract violation and
// panics.
func LabelOf(kind Kind, code Code) string {
	reg := mustRegistry(kind)
	label, ok := reg.labels[code]
	if !ok {
		panic(fmt.Sprintf("status: unregistered code %d for kind %s", code, kind))
	}
	return label
}

// IsRegistered reports whether the code is part of the kind's status set.
func IsRegistered(kind Kind, code Code) bool {
	reg, ok := registries[kind]
	if !ok {
		return false
	}
	_, ok = reg.labels[code]
	return ok
}

// Default returns the kind's fallback status.
func Default(kind Kind) Status {
	reg := mustRegistry(kind)
	return Status{Code: reg.fallback, Label: reg.labels[reg.fallback]}
}

// Codes returns every registered code for the kind.
func Codes(kind Kind) []Code {
	reg := mustRegistry(kind)
	codes := make([]Code, 0, len(reg.labels))
	for code := range reg.labels {
		codes = append(codes, code)
	}
	return codes
}

func mustRegistry(kind Kind) *registry {
	reg, ok := registries[kind]
	if !ok {
		panic(fmt.Sprintf("status: unknown entity kind %q", kind))
	}
	return reg
}

func (r *registry) normalizeCode(code Code) Status {
	if label, ok := r.labels[code]; ok {
		return Status{Code: code, Label: label}
	}
	return Status{Code: r.fallback, Label: r.labels[r.fallback]}
}

func (r *registry) normalizeString(s string) Status {
	key := strings.ToLower(strings.TrimSpace(s))

	// Numeric strings are treated as codes
	if n, err := strconv.Atoi(key); err == nil {
		return r.normalizeCode(Code(n))
	}

	for code, label := range r.labels {
		if strings.ToLower(label) == key {
			return Status{Code: code, Label: label}
		}
	}

	if code, ok := r.synonyms[key]; ok {
		return Status{Code: code, Label: r.labels[code]}
	}

	return Status{Code: r.fallback, Label: r.labels[r.fallback]}
}
