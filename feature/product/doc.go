// Package product implements the product configurator feature.
//
// # Pipeline
//
// Every slot and quotation write goes through Pipeline.Execute, which mirrors a
// staged trigger host:
//
//  1. The reconcile engine runs at the pre-commit stage inside a gorm
//     transaction. A rejection (empty or duplicate slot number) rolls the
//     write back and is returned to the caller.
//  2. The mutation is applied and committed.
//  3. The engine runs at the post-commit stage. Its writes are submitted back
//     to the pipeline one level deeper and tagged with the engine origin, so
//     they never trigger another round. A failure here is logged and reported
//     in Execution.PostCommitErr while the original write stays committed.
//
// # Routes
//
// The Handler mounts everything under /products: models and their slots,
// catalog options, quotations and their lines, catalog import from object
// storage, and a schema check of the product tables.
package product
