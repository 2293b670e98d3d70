// Package session models the host UI runtime around the popover resolver.
//
// A Session holds the rendered popover controls of one dashboard, the
// conditions store and the list of live strategies. Dispatch feeds it one
// interaction at a time, the way the browser runtime delivers callbacks:
//
//  1. The controls whose callback the event fires are resolved against the
//     current store and their decisions applied.
//  2. The store callback folds the event into the conditions store.
//  3. If the store changed, every control is resolved again with the store
//     update as trigger.
//
// Every resolution is a pass, stamped with a logical sequence number and
// optionally written to a journal. Dispatch is synchronous; a pass never
// observes a half-applied interaction.
package session
