// Package services holds the domain services of the fulfillment core: logic
// that spans the order and delivery partner aggregates and so belongs to
// neither one.
//
// PartnerDispatcher is the only service today. It binds a packed order to one
// of the available delivery partners, mutating both sides of the pair: the
// order takes the assignment and the partner stops being available.
// Persisting the pair atomically is the calling command handler's job.
package services
