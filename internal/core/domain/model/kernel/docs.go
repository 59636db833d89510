// Package kernel holds the shared value objects of the fulfillment domain.
//
// UUID identifies aggregates and entities; Money carries locked line-item
// prices in currency minor units. Both are immutable, validate themselves,
// and make their zero values detectably invalid so that aggregates can
// reject half-built input at construction time.
package kernel
