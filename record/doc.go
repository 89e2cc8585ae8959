// Package record defines the normalized value types produced by the source
// adapters.
//
// Each upstream API speaks its own JSON dialect; the adapters translate those
// responses into the types in this package so the relevance, selection and
// aggregation layers can work against one shape per artifact kind:
//
//   - [Bill]: a bill or resolution from Congress.gov
//   - [Document]: a Federal Register document (rule, notice, executive order)
//   - [CodeSection]: a section of the United States Code
//   - [Comment]: a public comment posted on Regulations.gov
//   - [Opinion]: a court opinion from CourtListener
//   - [Committee]: a congressional committee
//   - [Vote]: a roll-call vote with each member's position
//
// # Optional Fields
//
// Optional string fields use the empty string for "absent" and are omitted
// from JSON output. Optional nested objects, and counts where zero is a real
// value, are pointers. Optional lists are nil when the upstream omitted them.
//
// # Lifecycle
//
// Records are created fresh for every adapter call and are never shared or
// mutated after construction. They carry no relevance score; scoring is an
// ephemeral annotation owned by the relevance package.
package record
