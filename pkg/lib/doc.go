// Package lib provides a Go SDK for generating and validating algorithm
// step sequences programmatically.
//
// This package allows applications to run the generation engine, browse the
// algorithm catalog, and manage precomputed fixtures without shelling out to
// the stepviz CLI binary.
//
// # Quick Start
//
// Create a client, generate a sequence, and inspect its steps:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	seq, err := client.Generate(ctx, "binary-search", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, step := range seq.Steps {
//	    fmt.Printf("%d: %s\n", step.Index, step.Title)
//	}
//
// # Inputs
//
// Every algorithm declares default inputs in the catalog. Pass custom inputs
// through [GenerateOpts]:
//
//	seq, err := client.Generate(ctx, "binary-search", &lib.GenerateOpts{
//	    Inputs: lib.Inputs{"array": []int{1, 3, 5, 7}, "target": 5},
//	})
//
// # Fixtures
//
// Generated sequences can be persisted as fixtures and re-validated later:
//
//	client.Precompute(ctx)                  // One fixture per algorithm.
//	refs, _ := client.Fixtures(ctx)         // List stored fixtures.
//	seq, _ := client.Verify(ctx, "bubble-sort") // Load and re-validate one.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Algorithm or fixture does not exist.
//   - [ErrNotValid]: Invalid input or malformed sequence data.
//   - [ErrGeneration]: A producer failed, emitted an invalid step, or the
//     generated sequence broke a sequence invariant.
//
// # Testing
//
// Use a temporary database path to write tests without touching the user's
// fixture store:
//
//	client, _ := lib.New(ctx, lib.Config{
//	    DBPath: filepath.Join(t.TempDir(), "test.db"),
//	})
//	defer client.Close()
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. The
// underlying storage uses SQLite with WAL mode.
package lib
