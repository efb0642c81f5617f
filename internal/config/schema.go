package config

// Config is the top-level YAML structure.
type Config struct {
	Version string      `yaml:"version"`
	Server  ServerConf  `yaml:"server"`
	Catalog CatalogConf `yaml:"catalog"`
	Canvas  CanvasConf  `yaml:"canvas"`
	Rules   RulesConf   `yaml:"rules"`
	Editor  EditorConf  `yaml:"editor"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// CatalogConf points at the block catalog document.
type CatalogConf struct {
	Source    string `yaml:"source"`     // file path or http(s) URL
	TimeoutMs int    `yaml:"timeout_ms"` // 0 = no timeout
}

// CanvasConf describes the surface geometry.
type CanvasConf struct {
	// OriginOffset is nil when the file has no origin_offset; ApplyDefaults
	// then sets the header height. An explicit 0 is kept.
	OriginOffset *Point `yaml:"origin_offset"`
}

// Point is a client-space offset.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// RulesConf lists forbidden connections.
type RulesConf struct {
	RejectUnresolved bool            `yaml:"reject_unresolved"`
	Forbidden        []ForbiddenPair `yaml:"forbidden"`
}

// ForbiddenPair forbids edges from a Source-kind node into a Target-kind node.
type ForbiddenPair struct {
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	Message string `yaml:"message"`
}

// EditorConf holds per-editor event loop settings.
type EditorConf struct {
	QueueDepth     int `yaml:"queue_depth"`
	EventTimeoutMs int `yaml:"event_timeout_ms"`
	NoticeBuffer   int `yaml:"notice_buffer"`
	MaxEditors     int `yaml:"max_editors"`
}
