package ollama

import "llmrouter/internal/engine"

// Register Ollama provider on package import
func init() {
	engine.RegisterProvider("ollama", func() (engine.Provider, error) {
		config, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(config)
	})
}
