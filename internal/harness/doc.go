// Package harness runs scripted game scenarios through the playback
// controller and checks the resulting table.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: mancala-opening
//	description: "Free move, then a sow into the opponent's row"
//	game: mancala
//	seed: 1
//	policy: first
//	answers:
//	  - requester: south
//	    answer: [s3]
//	expect:
//	  position: 1
//	  finished: false
//	  mode: pause
//	  counts: {store-s: 1}
//	  values: {moves: 1}
//	  pending: [south]
//	  ranking: [south, north]
//	  error: ""
//
// Answers form the log replayed in play mode. Every expect field is
// optional; only the fields present are checked.
//
// # Golden Dumps
//
// RunWithGolden renders the final table as a text snapshot and compares
// it with testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
