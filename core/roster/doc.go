// Package roster holds pilots, drones and missions in memory. Reads go
// through View, mutations through Tx inside Store.Write, which keeps the
// cross references between missions and resources consistent.
package roster
