package usecase

import "github.com/inference-sim/hazard-sim/sim"

// init wires the constructors into the sim registry. sim owns the UseCase
// interface and cannot import this package.
func init() {
	sim.RegisterUseCase(TypeControlled, newControlled)
	sim.RegisterUseCase(TypeObuRwwMobileUnit, newObuRwwMobileUnit)
	sim.RegisterUseCase(TypeObuRwwLaneClosure, newObuRwwLaneClosure)
	sim.RegisterUseCase(TypeRsuRwwLaneClosure, newRsuRwwLaneClosure)
	sim.RegisterUseCase(TypeRsuHlnWcw, newRsuHlnWcw)
}
