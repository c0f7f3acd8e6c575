// Package adapter defines the ProtocolAdapter contract of §4.E: owning a
// listener for one wire protocol, translating its frames to and from the
// protocol-neutral envelope types, and driving a pipeline.Executor per
// inbound request. Concrete adapters live in the httpadapter and
// dimseadapter subpackages.
package adapter
