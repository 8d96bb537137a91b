package wave

// ConfigState holds the unified-field and fate compile-time configuration
// knobs set by the `unified { … }` and `fate on|off` directives. Per spec
// §9 these influence no emitted code in this revision; they exist purely
// as a policy hook for a future revision to consume.
type ConfigState struct {
	UnifiedI, UnifiedE, UnifiedR int64 // fixed-point, value x1000
	FateMode                    bool
}

// NewConfigState returns the zero-value configuration (i=e=r=0, fate off).
func NewConfigState() *ConfigState {
	return &ConfigState{}
}
