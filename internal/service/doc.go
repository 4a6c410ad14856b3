// Package service contains the application use cases. It orchestrates the
// domain types, the repositories defined in internal/store and the language
// model pipeline in internal/generation.
//
// Key components:
//
// 1. TaskService:
//   - CRUD over tasks, filing each task under a category created on demand
//   - Task writes and category usage counters share one transaction
//
// 2. ContextService:
//   - Stores free-form notes, emails and messages used as model context
//
// 3. AIService:
//   - Runs the BuildingPrompt, Invoking, Sanitizing and Validating stages for
//     single-task analysis and multi-task rescoring
//   - Wraps any stage failure once in an AIServiceError; never returns a
//     partial result
//
// Services receive their collaborators through constructor injection and
// depend only on interfaces, never on a concrete store implementation.
package service
