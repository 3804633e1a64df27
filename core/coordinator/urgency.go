package coordinator

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/kilianp07/dronecoord/core/events"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

const (
	sameLocationPoints = 3
	minimumRationale   = "Meets minimum requirements"
)

// ResolveUrgentPilotFailure replaces the mission's pilot with the best
// ranked standby pilot. The previous pilot keeps its status and assignment;
// releasing the mission frees them along with the new pilot.
func (c *Coordinator) ResolveUrgentPilotFailure(ctx context.Context, missionID string) (UrgentResult, error) {
	started := c.now()
	res := UrgentResult{MissionID: missionID}
	var fleet roster.Counts
	err := c.store.Write(func(tx *roster.Tx) error {
		defer func() { fleet = tx.Counts() }()
		m, ok := tx.Mission(missionID)
		if !ok {
			return model.NotFound("mission", missionID)
		}
		res.MissionName = m.Name
		cands := c.rank(tx, m)
		if len(cands) == 0 {
			return &model.OpError{
				Kind:   model.ErrNoStandbyPilot,
				Entity: "mission",
				ID:     m.ID,
				Msg:    "no suitable standby pilots available for mission " + m.ID + ", manual escalation required",
			}
		}
		top := cands[0]
		prev, err := tx.ReplacePilot(m.ID, top.PilotID)
		if err != nil {
			return err
		}
		res.PreviousPilot = prev
		res.PilotID = top.PilotID
		res.PilotName = top.PilotName
		res.Rationale = top.Rationale
		res.Score = top.Score
		res.Warnings = top.Warnings
		return nil
	})

	if err != nil {
		c.log.Warnf("urgent reassignment for mission %s: %v", missionID, err)
	} else {
		c.log.Infof("urgent reassignment: mission %s now flown by %s (previous %q): %s",
			res.MissionID, res.PilotID, res.PreviousPilot.String(), res.Rationale)
	}
	c.emit(ctx, events.Decision{
		Operation:     OpUrgent,
		MissionID:     res.MissionID,
		MissionName:   res.MissionName,
		PilotID:       res.PilotID,
		PreviousPilot: res.PreviousPilot.String(),
		Warnings:      res.Warnings,
		Rationale:     res.Rationale,
		Score:         res.Score,
		Fleet:         fleet,
	}, started, err)
	if err != nil {
		return UrgentResult{}, err
	}
	return res, nil
}

// RankCandidates returns the standby pilots for the mission in the order an
// urgent reassignment would consider them. Nothing is mutated.
func (c *Coordinator) RankCandidates(_ context.Context, missionID string) ([]Candidate, error) {
	var out []Candidate
	err := c.store.Read(func(v roster.View) error {
		m, ok := v.Mission(missionID)
		if !ok {
			return model.NotFound("mission", missionID)
		}
		out = c.rank(v, m)
		return nil
	})
	return out, err
}

// rank scores every pilot without blockers for m. Candidates are ordered by
// name, then by rationale length, longest first; both sorts are stable.
func (c *Coordinator) rank(v roster.View, m model.Mission) []Candidate {
	var out []Candidate
	for _, p := range v.Pilots() {
		report := c.detector.CheckPilot(v, p, m)
		if report.Blocked() {
			continue
		}
		cand := score(p, m)
		cand.Warnings = report.WarningMessages()
		out = append(out, cand)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PilotName < out[j].PilotName })
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Rationale) > len(out[j].Rationale) })
	return out
}

func score(p model.Pilot, m model.Mission) Candidate {
	c := Candidate{PilotID: p.ID, PilotName: p.Name, Location: p.Location}
	if p.Location == m.Location {
		c.Score += sameLocationPoints
		c.Reasons = append(c.Reasons, "same location")
	}
	if n := overlap(p.DroneExperience, m.RequiredSkills); n > 0 {
		c.Score += n
		c.Reasons = append(c.Reasons, "skill match")
	}
	if n := overlap(p.Certifications, m.RequiredCertifications); n > 0 {
		c.Score += n
		c.Reasons = append(c.Reasons, "certified")
	}
	if len(c.Reasons) == 0 {
		c.Rationale = minimumRationale
	} else {
		c.Rationale = "Selected due to " + strings.Join(c.Reasons, " + ")
	}
	return c
}

// overlap counts the distinct values of have that appear in want.
func overlap(have, want []string) int {
	n := 0
	seen := make(map[string]struct{}, len(have))
	for _, h := range have {
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		if slices.Contains(want, h) {
			n++
		}
	}
	return n
}
