// Package source holds the plumbing shared by the upstream adapters in its
// subpackages.
//
// A [Client] performs credentialed JSON GET requests against one upstream,
// bounds each request with the adapter's timeout, wraps it in a trace span,
// records latency and failures through a [Recorder], and classifies every
// failure into an [*Error] with a [Category].
//
// Adapters never return upstream errors to their callers. Where they swallow
// one, they call [Client.Fail], which emits a [Diagnostic] synchronously to the
// configured [Reporter]. Authentication diagnostics name the configuration
// value that supplies the credential and say whether it is missing or was
// rejected.
//
// Upstream payloads are read through [Fields], which resolves each logical
// field from an ordered list of wire-name variants.
package source
