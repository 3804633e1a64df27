// Package model defines the entities coordinated by the engine: pilots,
// drones, missions and the assignments that bind them, together with the
// error kinds every operation reports.
package model
