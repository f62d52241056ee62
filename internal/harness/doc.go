// Package harness runs evaluation scenarios against an integration agent
// and scores the results.
//
// A run executes each scenario in order: the agent is invoked with the
// scenario's request and workflow variables, the result is scored for
// action correctness and template validity, and outcomes are aggregated
// into run-level metrics. Scenario failures are captured as outcome data;
// only snapshot I/O can fail a harness operation.
//
// Completed runs are persisted as write-once JSON snapshots carrying the
// code revision and prompt fingerprint that produced them, so any two
// snapshots can be compared metric by metric with Compare.
package harness
