package profiles

// Profile describes one backend engine: a base routing priority and the
// capability tags the scoring rules match against.
type Profile struct {
	Name         string   `yaml:"-" json:"name"`
	Priority     int      `yaml:"priority" json:"priority"`
	Capabilities []string `yaml:"capabilities" json:"capabilities"`
}

// Priority is always clamped to this range, both on load and on write.
const (
	MinPriority = 1
	MaxPriority = 100
)

// Capability tags with routing meaning. The set is open: profiles may
// carry tags the rules ignore.
const (
	CapReasoning   = "reasoning"
	CapCode        = "code"
	CapVision      = "vision"
	CapLightweight = "lightweight"
	CapGeneral     = "general"
)

// HasCapability reports whether the profile carries the given tag.
func (p Profile) HasCapability(tag string) bool {
	for _, c := range p.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// ClampPriority bounds a priority to the valid range.
func ClampPriority(priority int) int {
	if priority < MinPriority {
		return MinPriority
	}
	if priority > MaxPriority {
		return MaxPriority
	}
	return priority
}
