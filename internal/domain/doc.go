// Package domain contains the core business entities, value objects, and
// domain logic of the application: the generation Task, its status state
// machine, and the validation errors surfaced to API clients. It is
// independent of any specific infrastructure or delivery mechanism.
package domain
