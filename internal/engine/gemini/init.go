package gemini

import "llmrouter/internal/engine"

// Register Gemini provider on package import
func init() {
	engine.RegisterProvider("gemini", func() (engine.Provider, error) {
		config, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(config)
	})
}
