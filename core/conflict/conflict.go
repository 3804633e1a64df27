package conflict

// Kind classifies a conflict.
type Kind string

const (
	KindPilotUnavailable      Kind = "pilot_unavailable"
	KindScheduleOverlap       Kind = "schedule_overlap"
	KindMissingSkills         Kind = "missing_skills"
	KindMissingCertifications Kind = "missing_certifications"
	KindDroneUnavailable      Kind = "drone_unavailable"
	KindMissingCapabilities   Kind = "missing_capabilities"
	KindPilotLocation         Kind = "pilot_location"
	KindDroneLocation         Kind = "drone_location"
)

// Conflict is one failed check against a candidate assignment.
type Conflict struct {
	Kind Kind `json:"kind"`
	// Subject is the identity of the pilot or drone the check failed for.
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Report holds the outcome of a check. Blockers must prevent the assignment,
// warnings are advisory.
type Report struct {
	Blockers []Conflict `json:"blockers"`
	Warnings []Conflict `json:"warnings"`
}

// Blocked reports whether any blocker was found.
func (r Report) Blocked() bool { return len(r.Blockers) > 0 }

// BlockerMessages returns the blocker messages in check order.
func (r Report) BlockerMessages() []string { return messages(r.Blockers) }

// WarningMessages returns the warning messages in check order.
func (r Report) WarningMessages() []string { return messages(r.Warnings) }

// Has reports whether a blocker of kind k is present.
func (r Report) Has(k Kind) bool {
	for _, c := range r.Blockers {
		if c.Kind == k {
			return true
		}
	}
	return false
}

func messages(cs []Conflict) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Message)
	}
	return out
}
