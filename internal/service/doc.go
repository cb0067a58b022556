// Package service contains application services that orchestrate domain
// entities, stores, and the auth primitives into the operations the API
// exposes. Services own transaction boundaries; handlers stay thin.
package service
