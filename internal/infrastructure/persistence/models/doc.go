// Package models contains GORM persistence models that map to database tables.
// They are kept apart from the domain entities so the domain layer stays free
// of ORM tags; each model carries its own ToDomain/FromDomain mappers.
//
// Structure:
//   - base.go: BaseModel shared by aggregate tables
//   - integration.go: integrations and their append-only timeline
//   - connector.go: connectors with their JSON config column
package models
