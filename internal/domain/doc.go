// Package domain contains the core business entities and their
// validation rules, independent of storage and transport concerns.
package domain
