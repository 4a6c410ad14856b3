// Package domain contains the core business entities and value objects of the
// task service: tasks, categories, context entries and the structured results
// produced by AI analysis. It is independent of storage and transport.
package domain
