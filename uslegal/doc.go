// Package uslegal is the facade over the US legal data sources: Congress.gov,
// the Federal Register, the US Code, Regulations.gov and CourtListener.
//
// A [Client] owns one adapter per source and exposes them individually
// through accessors, plus an aggregate search that fans one query out to
// several sources at once.
//
// # Aggregate search
//
// [Client.SearchSources] queries N sources concurrently, each with a
// sub-limit of ceil(limit/N), and joins on all of them. Adapters swallow their
// own failures and return empty lists, so one source timing out or rejecting
// a credential never blocks, cancels or fails the others. The returned
// [record.Composite] always carries every source key.
//
// [Client.SearchAll] does the same over the configured source set, which
// defaults to all five sources.
//
// # Credentials
//
// Keys are supplied once through [Options.Credentials] and passed into each
// adapter's constructor; adapters never read the environment. Missing keys
// are never fatal. [Client.Providers] reports each source's credential state.
//
// # Testing
//
// Each adapter slot in [Options] accepts an interface implementation, so
// tests can substitute fakes for any source.
package uslegal
