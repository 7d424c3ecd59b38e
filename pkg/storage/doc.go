// Package storage defines the persistence interfaces of the prediction
// journal. Backends such as PostgreSQL provide the implementations.
package storage
