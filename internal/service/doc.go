// Package service provides application-level services for managing users,
// tasks, task lists, notification preferences and password resets. Services
// own the business rules (ownership checks, cache invalidation, background
// job dispatch) and leave persistence to the store layer.
package service
