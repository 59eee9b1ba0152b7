// Package store persists the candidate item list. Two backends are
// provided: PostgreSQL for shared deployments and a JSON file for
// single-instance setups. The engine only depends on the Store
// interface; the backend is selected at startup from configuration.
package store
