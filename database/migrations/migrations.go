// Package migrations holds the schema migrations. Each one registers itself
// from init(), so importing the package (cmd/jewelry does) is enough to make
// them visible to the runner.
package migrations
