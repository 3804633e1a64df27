// Package coordinator implements the assignment and urgency logic on top of
// the roster store. AssignNext is the naive first-fit path; Assign is the
// conflict-aware path; ResolveUrgentPilotFailure replaces a pilot with the
// best ranked standby pilot.
package coordinator
