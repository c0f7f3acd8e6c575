// Package httpadapter implements the HTTP ProtocolAdapter of spec.md §4.E:
// a chi router carrying the ambient internal/httpmw stack, dispatching
// requests to pipelines by longest-matching configured path_prefix, and
// driving pipeline.Executor for each one.
package httpadapter
