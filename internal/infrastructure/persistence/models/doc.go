// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// domain counterpart with ToDomain / FromDomain.
//
//   - base.go: shared id and timestamp columns
//   - shipment.go: shipments, shipment_packages, tracking_events, services
//   - contact.go: contact_forms
package models
