package scenarios

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kilianp07/dronecoord/core/audit"
	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/logger"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/ops"
)

// StepResult is the verdict for one step.
type StepResult struct {
	Index    int
	Op       string
	Failures []string
}

func (r StepResult) Passed() bool { return len(r.Failures) == 0 }

// Result is the verdict for a whole scenario.
type Result struct {
	Name   string
	Steps  []StepResult
	Totals []string
}

// Passed reports whether every step and total matched.
func (r Result) Passed() bool {
	if len(r.Totals) > 0 {
		return false
	}
	for _, s := range r.Steps {
		if !s.Passed() {
			return false
		}
	}
	return true
}

// Run executes the scenario against a fresh roster built from its fixture.
func Run(ctx context.Context, sc *Scenario, log logger.Logger) (Result, error) {
	r, err := sc.Roster.Roster(sc.Name)
	if err != nil {
		return Result{}, err
	}
	store, err := r.Store(log)
	if err != nil {
		return Result{}, err
	}
	trail := &memLog{}
	exec := ops.NewExecutor(coordinator.New(store, coordinator.WithAudit(trail), coordinator.WithLogger(log)))

	res := Result{Name: sc.Name}
	for i, step := range sc.Steps {
		sr := StepResult{Index: i + 1, Op: step.Op}
		op, err := ops.ParseOperation(step.Op)
		if err != nil {
			return Result{}, fmt.Errorf("step %d: %w", i+1, err)
		}
		resp, err := exec.Execute(ctx, ops.Request{Op: op, MissionID: step.MissionID, PilotID: step.PilotID, DroneID: step.DroneID})
		sr.Failures = verify(step.Expect, resp, err)
		res.Steps = append(res.Steps, sr)
	}

	ok, failed := trail.outcomes()
	if want := sc.Expected.Successes; want != nil && *want != ok {
		res.Totals = append(res.Totals, fmt.Sprintf("expected %d successful decisions, got %d", *want, ok))
	}
	if want := sc.Expected.Failures; want != nil && *want != failed {
		res.Totals = append(res.Totals, fmt.Sprintf("expected %d failed decisions, got %d", *want, failed))
	}
	return res, nil
}

func verify(e Expect, resp ops.Response, err error) []string {
	var f []string
	mismatch := func(name string, want, got any) {
		f = append(f, fmt.Sprintf("%s: want %v, got %v", name, want, got))
	}
	wantStatus := e.Status
	if wantStatus == "" {
		wantStatus = "ok"
	}
	gotStatus := "ok"
	if err != nil {
		gotStatus = "failed"
	}
	if wantStatus != gotStatus {
		mismatch("status", wantStatus, fmt.Sprintf("%s (%v)", gotStatus, err))
		return f
	}
	if err != nil {
		if e.Kind != "" && e.Kind != model.KindOf(err) {
			mismatch("kind", e.Kind, model.KindOf(err))
		}
		if e.Blockers != nil && !slices.Equal(e.Blockers, model.BlockersOf(err)) {
			mismatch("blockers", e.Blockers, model.BlockersOf(err))
		}
		return f
	}

	var missionID, pilotID, droneID, prev, rationale string
	var warnings []string
	switch {
	case resp.Assignment != nil:
		a := resp.Assignment
		missionID, pilotID, droneID, warnings = a.MissionID, a.PilotID, a.DroneID, a.Warnings
	case resp.Urgent != nil:
		u := resp.Urgent
		missionID, pilotID, prev, rationale, warnings = u.MissionID, u.PilotID, u.PreviousPilot.String(), u.Rationale, u.Warnings
	case resp.Release != nil:
		missionID, pilotID, droneID = resp.Release.MissionID, resp.Release.Pilot.String(), resp.Release.Drone.String()
	case resp.Report != nil:
		if e.Blockers != nil && !slices.Equal(e.Blockers, resp.Report.BlockerMessages()) {
			mismatch("blockers", e.Blockers, resp.Report.BlockerMessages())
		}
		warnings = resp.Report.WarningMessages()
	}
	check := func(name, want, got string) {
		if want != "" && want != got {
			mismatch(name, want, got)
		}
	}
	check("mission_id", e.MissionID, missionID)
	check("pilot_id", e.PilotID, pilotID)
	check("drone_id", e.DroneID, droneID)
	check("previous_pilot", e.PreviousPilot, prev)
	check("rationale", e.Rationale, rationale)
	if e.Warnings != nil && !slices.Equal(e.Warnings, warnings) {
		mismatch("warnings", e.Warnings, warnings)
	}
	if e.Candidates != nil {
		var ids []string
		for _, c := range resp.Candidates {
			ids = append(ids, c.PilotID)
		}
		if !slices.Equal(e.Candidates, ids) {
			mismatch("candidates", e.Candidates, ids)
		}
	}
	if e.Pilots != nil {
		var ids []string
		for _, p := range resp.Pilots {
			ids = append(ids, p.ID)
		}
		if !slices.Equal(e.Pilots, ids) {
			mismatch("pilots", e.Pilots, ids)
		}
	}
	if e.Drones != nil {
		var ids []string
		for _, d := range resp.Drones {
			ids = append(ids, d.ID)
		}
		if !slices.Equal(e.Drones, ids) {
			mismatch("drones", e.Drones, ids)
		}
	}
	return f
}

// memLog keeps the decision trail of one run.
type memLog struct {
	mu   sync.Mutex
	recs []audit.LogRecord
}

func (m *memLog) Append(_ context.Context, r audit.LogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, r)
	return nil
}

func (m *memLog) Query(_ context.Context, q audit.LogQuery) ([]audit.LogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []audit.LogRecord
	for _, r := range m.recs {
		if q.Match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memLog) Close() error { return nil }

func (m *memLog) outcomes() (ok, failed int) {
	recs, _ := m.Query(context.Background(), audit.LogQuery{})
	for _, r := range recs {
		if r.Outcome == audit.OutcomeSuccess {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
