// Package workload turns a student's individual and group tasks into derived
// signals: task priority, deadline collisions, a burnout risk score, reminder
// candidates and group progress.
//
// Nothing here is cached. Every Engine call reads the current task set from its
// TaskSource and recomputes from scratch, so results are only as stale as the
// last store read.
package workload
