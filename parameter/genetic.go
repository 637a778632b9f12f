package parameter

// Genetic Algorithm - Engine Configuration
const (
	// GAPopulationSize is the number of individuals in each generation
	GAPopulationSize = 100

	// GAMutationRate is the per-gene probability of a random reset (0.0-1.0)
	GAMutationRate = 0.05

	// GATournamentSize is the number of draws per tournament
	GATournamentSize = 5

	// GAMaxGenerations caps a run; 0 means unbounded
	GAMaxGenerations = 500

	// GAParallelism bounds concurrent fitness evaluations
	GAParallelism = 4
)

// Genetic Algorithm - Windowed Solver Preset
const (
	GAWindowPopulationSize = 100
	GAWindowMutationRate   = 0.01
	GAWindowMaxGenerations = 0
)

// Genetic Algorithm - Console Solver Preset
const (
	GAConsolePopulationSize = 100
	GAConsoleMutationRate   = 0.1
	GAConsoleTournamentSize = 5
	GAConsoleMaxGenerations = 100
)

// Progress Notification
const (
	// GAMailboxSize is the per-observer progress buffer; newer progress replaces older
	GAMailboxSize = 1
)
