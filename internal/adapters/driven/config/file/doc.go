// Package file provides file-based configuration adapters.
//
// Adapters:
//   - Config: typed application configuration from TOML or YAML, with
//     .env and environment overrides
//   - PromptStore: user-editable LLM prompts
package file
