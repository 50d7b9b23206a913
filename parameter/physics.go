package parameter

// Solver iterations for overlap resolution per step
const SolverIterations = 4

// MaxBodySpeed caps dynamic body speed so small bodies cannot tunnel through thin walls
const MaxBodySpeed = 80.0
