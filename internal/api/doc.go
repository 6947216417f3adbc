// Package api contains the HTTP handlers, request and response models,
// and error mapping for the generation endpoints. Handlers stay thin:
// they decode and validate input, delegate to the service layer, and
// translate the outcome into HTTP.
package api
