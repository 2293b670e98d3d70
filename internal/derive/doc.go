// Package derive holds the stateless derivations that sit next to the
// popover resolver: visibility of dependent sections and the defaults
// restored by the "clear all" button.
//
// Every function here is plain value in, value out.
package derive
