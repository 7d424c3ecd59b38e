// Package domain contains the core domain entities and types used by the
// application: the catalogue of tumor measurements, feature records, labels
// and predictions. These types are intentionally free of infrastructure
// concerns so they can be shared by every front-end.
package domain
