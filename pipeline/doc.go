// Package pipeline implements the concurrent scoring pipeline: a bounded
// work queue feeding N scoring workers, a results queue feeding a single
// serialized writer, and an orchestrator that wires them together and
// drives coordinated shutdown.
//
// Posts flow source → work queue → workers → results queue → writer → sink.
// Each worker owns its own scorer instance and batch accumulator; the only
// shared state is the two queues, and back-pressure is expressed purely
// through their blocking. With more than one worker, output order is a
// nondeterministic interleaving of the workers' completion order; input
// order is not preserved.
//
// Shutdown is signaled with end-of-stream markers, one per consumer, and is
// strictly ordered: workers are stopped and joined first, and the writer is
// stopped only once no worker can enqueue further results.
package pipeline
