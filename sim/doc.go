// Package sim provides the hazard notification (DENM) dissemination engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - denm.go: the facility-layer message model (header, management, situation, alacarte)
//   - memory.go: the dedup/expiry cache keyed by ActionID
//   - service.go: DenService, the per-station orchestrator (Trigger, Indicate, SendDenm)
//
// # Control flow
//
// The host scheduler calls DenService.Trigger once per tick: the Memory is swept,
// then every use case's Check runs. Inbound messages enter via DenService.Indicate:
// own messages are dropped, everything else is upserted into the Memory and fanned
// out to every use case's Indicate. Use cases send through DenService.SendDenm,
// using BuildSkeleton and ComputeDestination to fill the message and its
// geo-broadcast destination.
//
// # Extension points
//
// Use case implementations live in sim/usecase and register themselves via init()
// with RegisterUseCase; configuration refers to them by type name. The host side
// (stations, mobility, broadcast medium) lives in sim/cluster.
//
// All times inside the engine are simulation ticks in microseconds. Timer maps
// ticks onto the simulated wall clock for TimestampIts encoding.
package sim
