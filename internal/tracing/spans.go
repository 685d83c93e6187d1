package tracing

// InstrumentationName names the tracer used by settingsdef packages.
const InstrumentationName = "github.com/zjrosen/settingsdef"

// Span names.
const (
	SpanProfileLoad = "profile.load"
	SpanProfileSave = "profile.save"
	SpanApplyHCL    = "hcldef.apply"
	SpanCommand     = "cli."
)

// Span attribute keys.
const (
	AttrProfileName  = "profile.name"
	AttrProfileBytes = "profile.bytes"
	AttrStoreBackend = "store.backend"
	AttrHCLFile      = "hcl.file"
	AttrSettingCount = "setting.count"
)

// Span event names.
const (
	EventProfileMissing = "profile.missing"
)
