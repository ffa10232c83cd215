// Package agent contains the agent implementations and supporting utilities
// of netsim. The package focuses on three concerns:
//
//  1. Base protocol plumbing (BaseAgent): identity, state, peer queries and
//     topology mutation scoped to the agent's own node and neighborhood
//  2. The privileged EnvironmentAgent able to grow the topology (spawn nodes,
//     wire edges, allocate fresh ids)
//  3. Process activation (Activate) binding an agent's behavior routine to
//     the cooperative scheduler
//
// Design principles:
//   - Minimal hidden global state – explicit wiring via core.RunContext
//   - Extensibility – embed BaseAgent; only implement Run plus any custom API
//   - Single query primitive – Agents() with options; every convenience
//     accessor is a special case of it
//
// Execution Model:
//   - An agent's Run receives the core.Proc it suspends on
//   - Between two suspension points a behavior executes alone, so query and
//     mutation sequences without a Wait are atomic
//   - Removal (Die, RemoveNode) takes effect immediately in the topology but
//     never interrupts a running routine
//
// The package intentionally keeps the scheduler, the graph backend and
// persistence in their respective packages to avoid cyclic deps.
package agent
