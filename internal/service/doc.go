// Package service contains the application services that sit between
// the HTTP layer and the generation client, adding cross-cutting
// behavior such as audit logging.
package service
