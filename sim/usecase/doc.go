// Package usecase implements the hazard scenarios evaluated by sim.DenService.
//
// Two families exist. Self-triggering use cases (controlled, obu-rww-mobile-unit)
// check a condition every tick and send with a randomized cooldown; periodic road
// side unit use cases (rsu-rww-lane-closure, rsu-hln-wcw) send at a fixed interval
// after a randomized startup delay. Reactive use cases (obu-rww-lane-closure) never
// send and only act on received messages.
//
// Importing this package registers every type with sim.RegisterUseCase.
package usecase
