// Package partner provides the DeliveryPartner aggregate for the fulfillment
// system. A delivery partner carries orders from the store to the buyer and
// is the target of the assignment flow.
//
// The aggregate tracks two independent flags: whether the partner is active
// (onboarded, not suspended) and whether the partner is available to take a
// delivery right now. Assignment requires both; the flags change through
// MarkBusy, MarkAvailable and the admin setters.
package partner
