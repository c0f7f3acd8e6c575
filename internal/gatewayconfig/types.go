package gatewayconfig

// Config is the parsed, pre-validation gateway topology document, mirroring
// spec.md §6's required sections.
type Config struct {
	Proxy      ProxyConfig                 `toml:"proxy" validate:"required"`
	Network    map[string]NetworkConfig    `toml:"network" validate:"dive"`
	Storage    StorageConfig               `toml:"storage"`
	Management ManagementConfig            `toml:"management"`
	Pipelines  map[string]PipelineConfig   `toml:"pipelines" validate:"dive"`
	Endpoints  map[string]EndpointConfig   `toml:"endpoints" validate:"dive"`
	Middleware map[string]MiddlewareConfig `toml:"middleware" validate:"dive"`
	Backends   map[string]BackendConfig    `toml:"backends" validate:"dive"`
}

// ProxyConfig identifies the running gateway instance and its log level.
type ProxyConfig struct {
	ID       string `toml:"id" validate:"required"`
	LogLevel string `toml:"log_level" validate:"required,oneof=trace debug info warn error"`
}

// NetworkConfig describes one declared network: its HTTP bind point and
// optional WireGuard overlay.
type NetworkConfig struct {
	HTTP            HTTPNetworkConfig `toml:"http" validate:"required"`
	EnableWireguard bool              `toml:"enable_wireguard"`
	Interface       string            `toml:"interface"`
}

// HTTPNetworkConfig is the TCP bind point a network's adapters listen on.
type HTTPNetworkConfig struct {
	BindAddress string `toml:"bind_address" validate:"required"`
	BindPort    uint16 `toml:"bind_port" validate:"required,gt=0"`
}

// StorageConfig configures the on-disk storage external collaborators
// (notably the JMIX builder) use. The core itself persists nothing.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// ManagementConfig configures the optional management API surface.
type ManagementConfig struct {
	Enabled  bool   `toml:"enabled"`
	BasePath string `toml:"base_path"`
	Network  string `toml:"network"`
}

// PipelineConfig binds an endpoint, a middleware chain, and backends to one
// or more networks.
type PipelineConfig struct {
	Description string   `toml:"description"`
	Networks    []string `toml:"networks" validate:"required,min=1"`
	Endpoints   []string `toml:"endpoints" validate:"required,min=1"`
	Middleware  []string `toml:"middleware"`
	Backends    []string `toml:"backends"`
}

// EndpointConfig names an Endpoint Service implementation and its options.
// Options is intentionally untyped: each service interprets its own keys
// (e.g. "path_prefix" for HTTP, "ae_title" for DICOM).
type EndpointConfig struct {
	Service string         `toml:"service" validate:"required"`
	Options map[string]any `toml:"options"`
}

// MiddlewareConfig names a middleware kind (built-in or externally
// registered, see RegisterMiddlewareKind) and its options.
type MiddlewareConfig struct {
	Type    string         `toml:"type" validate:"required"`
	Options map[string]any `toml:"options"`
}

// BackendConfig names a Backend implementation, its options, and its
// ordered target list (first-configured-wins per spec.md §4.C).
type BackendConfig struct {
	Service string         `toml:"service" validate:"required"`
	Options map[string]any `toml:"options"`
	Targets []string       `toml:"targets"`
}
