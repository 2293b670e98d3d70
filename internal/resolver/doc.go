// Package resolver decides, for one rendered popover control and one
// interaction, whether the popover opens or closes and which label its
// handle shows.
//
// Resolution runs in three ordered steps, each of which may override the
// partial result of the previous one:
//
//  1. Attribution: is there a triggered event at all?
//  2. Classification: parse the trigger's component id. An activated handle
//     (role "input") opens the popover; a chosen option in the same scope
//     closes it and proposes the option's label.
//  3. Store precedence: a label committed in the store for this control's
//     scope key and type replaces any label proposed by step 2.
//
// The resolver is a pure function of its inputs. It never returns an error:
// malformed triggers, incomplete identities and missing store entries leave
// the affected output Unchanged.
package resolver
