// Package topology computes the maximum endpoint count of interconnection
// network topologies across a range of router radices.
//
// Closed-form families (fat trees, Dragonfly+, Fat Dragon) are plain
// arithmetic. HyperX and Dragonfly are sized by external search procedures
// behind the Searcher interface, so tests can substitute deterministic stubs.
//
// A run is: Select the topologies (validating the skip list up front), then
// Runner.Run, which fans out one executor task per (topology, radix) and
// returns a complete ResultTable or an error.
package topology
