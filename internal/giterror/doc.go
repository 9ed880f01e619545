// Package giterror classifies errors returned by the GitHub GraphQL API so
// callers can map them to sentinel errors without string checks of their own.
package giterror
