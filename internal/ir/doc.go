// Package ir provides the data model shared by every stratui package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Scope fields compare by canonical string form, never by Go type
//   - "Leave unchanged" is a Slot state, never a magic value
//   - Parsing a trigger is total: Unparseable is a result, not an error
//   - All JSON tags use snake_case, matching the dashboard's component ids
package ir
