// Package model defines the shared data types of the trading engine.
//
// Conventions:
//   - Prices and credits: whole integer credits, never fractional
//   - Trade.Expires: seconds remaining; 0 = just ended; -1 = ended unsold
//   - IDs: opaque strings assigned by the remote marketplace
package model
