// Package order models the buyer-facing half of the fulfillment domain: the
// Order aggregate root, its role-gated lifecycle, the delivery confirmation
// protocol, and the timeline projection built from its timestamps.
//
// The package includes:
//   - Order: the aggregate root carrying identity, line items, payment state,
//     and one timestamp per lifecycle stage
//   - Status: the canonical status set with legacy-alias normalization
//   - Role: the marketplace actor roles that gate every transition
//   - Item: an order line with its unit price locked at placement
//   - TimelineStep: the derived read-only progress view of an order
//
// The rules the aggregate enforces:
//   - status follows the happy path placed -> confirmed -> picked -> packed ->
//     out_for_delivery -> delivered; cancellation is reachable from every
//     non-terminal status and returned only from delivered
//   - every transition is gated by the acting role through a single
//     transition table; there are no ad hoc status writes
//   - delivery is confirmed with a numeric code known only to the buyer, and
//     cash-on-delivery orders additionally reconcile doorstep collection
//   - each status timestamp is set exactly once and never overwritten
//   - re-applying an already-applied transition is an idempotent no-op
package order
