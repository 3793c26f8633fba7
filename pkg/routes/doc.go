/*
Package routes orchestrates access to persisted replay routes.

Several controllers (or replicas of the decision service) may record routes for
the same maze. The Manager serialises access per maze ID with an in-process lock
and, when configured, a distributed lock, before delegating to a ports.RouteStore.
*/
package routes
