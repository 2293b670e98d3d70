// Package conditions maintains the conditions store: the per-row record of
// what the user picked in each strategy rule, keyed by scope key.
//
// The popover resolver reads committed labels out of this store. Every
// function here returns a new Store and leaves its input untouched.
//
// The package also keeps the strategies list the store is pruned against
// and renders the option list of each popover.
package conditions
